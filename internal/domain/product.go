package domain

import "time"

// Product representa um SKU de pneu do catálogo.
//
// O estoque é dividido em dois contadores independentes:
//   - StockLevel: unidades no armazém (ainda não disponíveis para venda);
//   - SubStockLevel: unidades no piso da loja (disponíveis para venda imediata).
//
// Toda mutação desses contadores passa pelo Stock Ledger (stockservice ou o
// fluxo de venda no transactionrepo); o catálogo nunca os altera diretamente.
type Product struct {
	ID            string    `json:"_id"`
	Size          string    `json:"size"`
	BrandID       string    `json:"-"`
	VehicleTypeID string    `json:"-"`
	Pattern       string    `json:"pattern"`
	PR            int       `json:"pr"`
	Price         float64   `json:"price"`
	Barcode       string    `json:"barcode"`
	Remarks       string    `json:"remarks"`
	Status        bool      `json:"status"`
	StockLevel    int       `json:"stockLevel"`
	SubStockLevel int       `json:"subStockLevel"`
	CreatedAt     time.Time `json:"createdAt"`

	// Referências resolvidas na leitura (read-side assembly).
	// No caminho de escrita apenas os IDs são persistidos.
	Brand       *Brand       `json:"brand,omitempty"`
	VehicleType *VehicleType `json:"vehicleType,omitempty"`
}

// ProductInput é o payload de criação/atualização de produto.
// Brand e VehicleType carregam os IDs das referências, como na API original.
type ProductInput struct {
	Size        string  `json:"size"`
	Brand       string  `json:"brand"`
	VehicleType string  `json:"vehicleType"`
	Pattern     string  `json:"pattern"`
	PR          int     `json:"pr"`
	Price       float64 `json:"price"`
	Barcode     string  `json:"barcode"`
	Remarks     string  `json:"remarks"`
	Status      *bool   `json:"status,omitempty"`
}

// ProductFilter define os parâmetros de busca e paginação do catálogo.
type ProductFilter struct {
	Size        string
	BrandID     string
	VehicleType string
	Page        int
	PageSize    int
}

// ProductPage é a resposta da listagem paginada do catálogo.
type ProductPage struct {
	TotalSize int       `json:"totalSize"`
	Products  []Product `json:"products"`
}

// StockPool identifica qual dos dois contadores de estoque uma leitura
// (e.g., low-stock) deve observar.
type StockPool string

const (
	WarehousePool StockPool = "warehouse"
	ShopPool      StockPool = "shop"
)

// StockRequest é o payload dos endpoints de reposição e transferência.
type StockRequest struct {
	Quantity int `json:"quantity"`
}
