package domain

import "time"

// Brand representa a marca de pneu cadastrada no catálogo.
type Brand struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// BrandInput é o payload de criação/atualização de marca.
type BrandInput struct {
	Name   string `json:"name"`
	Active *bool  `json:"active,omitempty"`
}
