package domain

import "time"

// Customer representa um cliente da loja. O número do veículo é usado
// pelo balcão para localizar o cliente rapidamente.
type Customer struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	PhoneNumber   string    `json:"phoneNumber"`
	VehicleNumber string    `json:"vehicleNumber"`
	Address       string    `json:"address"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CustomerInput é o payload de criação/atualização de cliente.
type CustomerInput struct {
	Name          string `json:"name"`
	PhoneNumber   string `json:"phoneNumber"`
	VehicleNumber string `json:"vehicleNumber"`
	Address       string `json:"address"`
	Active        *bool  `json:"active,omitempty"`
}

// CustomerFilter define os parâmetros opcionais de busca de clientes.
type CustomerFilter struct {
	Name        string
	PhoneNumber string
	Address     string
}
