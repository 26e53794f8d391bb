package domain

import "time"

// VehicleType representa o tipo de veículo ao qual um pneu se destina
// (e.g., "Car", "Truck", "Motorcycle").
type VehicleType struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleTypeInput é o payload de criação/atualização de tipo de veículo.
type VehicleTypeInput struct {
	Name   string `json:"name"`
	Active *bool  `json:"active,omitempty"`
}
