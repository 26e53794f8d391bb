package domain

import "time"

// PaymentMethod é o conjunto fechado de formas de pagamento aceitas.
type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "cash"
	PaymentCheque         PaymentMethod = "cheque"
	PaymentRunningAccount PaymentMethod = "running-account"
)

// Valid informa se o valor recebido pertence ao conjunto aceito.
// Vazio é permitido em filtros, nunca em uma venda persistida.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCheque, PaymentRunningAccount:
		return true
	}
	return false
}

// TransactionLine é um item de venda: referência de produto, quantidade,
// preço unitário e o valor da linha (quantidade x preço, calculado no servidor).
type TransactionLine struct {
	ProductID    string  `json:"-"`
	QuantitySold int     `json:"quantitySold"`
	Price        float64 `json:"price"`
	Amount       float64 `json:"amount"`

	// Product é resolvido na leitura (com Brand e VehicleType aninhados).
	Product *Product `json:"product,omitempty"`
}

// Transaction é uma venda ou um rascunho suspenso.
//
// Os dois flags de ciclo de vida são independentes:
//   - IsSuspended: rascunho salvo sem nenhum efeito de estoque;
//   - IsCompleted: venda fechada; não volta a ativa.
//
// CustomID é o número de recibo legível (MOH + contador de 5 dígitos),
// estritamente crescente e nunca reutilizado — distinto do ID interno.
type Transaction struct {
	ID               string            `json:"_id"`
	CustomID         string            `json:"customId"`
	Products         []TransactionLine `json:"products"`
	TotalAmount      float64           `json:"totalAmount"`
	RecievedAmount   float64           `json:"recievedAmount"`
	AdditionalAmount float64           `json:"additionalAmount"`
	Discount         float64           `json:"discount"`
	Changefee        float64           `json:"changefee"`
	PaymentMethod    PaymentMethod     `json:"paymentMethod"`
	ChequeNo         string            `json:"chequeNo,omitempty"`
	ChequeDueDate    *time.Time        `json:"chequeDueDate,omitempty"`
	CustomerID       string            `json:"-"`
	Customer         *Customer         `json:"customer,omitempty"`
	IsSuspended      bool              `json:"isSuspended"`
	IsCompleted      bool              `json:"isCompleted"`
	TransactionDate  time.Time         `json:"transactionDate"`
}

// TransactionLineInput é um item de venda como chega da API: "product" é o
// ID do produto. O campo amount do cliente é ignorado — o servidor recalcula.
type TransactionLineInput struct {
	Product      string  `json:"product"`
	QuantitySold int     `json:"quantitySold"`
	Price        float64 `json:"price"`
	Amount       float64 `json:"amount"`
}

// TransactionInput é o payload de criação de venda (POST /transaction).
type TransactionInput struct {
	Products         []TransactionLineInput `json:"products"`
	RecievedAmount   float64                `json:"recievedAmount"`
	AdditionalAmount float64                `json:"additionalAmount"`
	Discount         float64                `json:"discount"`
	Changefee        float64                `json:"changefee"`
	PaymentMethod    PaymentMethod          `json:"paymentMethod"`
	ChequeNo         string                 `json:"chequeNo"`
	ChequeDueDate    *time.Time             `json:"chequeDueDate"`
	Customer         string                 `json:"customer"`
	IsSuspended      bool                   `json:"isSuspended"`
	IsCompleted      bool                   `json:"isCompleted"`
}

// TransactionUpdateInput é o payload de retomada/edição (PUT /transaction).
// NewProducts substitui a lista de itens por inteiro.
type TransactionUpdateInput struct {
	TransactionID    string                 `json:"transactionId"`
	NewProducts      []TransactionLineInput `json:"newProducts"`
	RecievedAmount   float64                `json:"recievedAmount"`
	AdditionalAmount float64                `json:"additionalAmount"`
	Discount         float64                `json:"discount"`
	Changefee        float64                `json:"changefee"`
	PaymentMethod    PaymentMethod          `json:"paymentMethod"`
	ChequeNo         string                 `json:"chequeNo"`
	ChequeDueDate    *time.Time             `json:"chequeDueDate"`
	Customer         string                 `json:"customer"`
	IsCompleted      bool                   `json:"isCompleted"`
}

// TransactionFilter define os filtros opcionais da listagem paginada.
// EndDate é inclusivo até o fim do dia (23:59:59.999).
type TransactionFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentMethod PaymentMethod
	IsSuspended   *bool
	IsCompleted   *bool
	CustomerID    string
	Page          int
	Limit         int
}

// TransactionSummary é a linha da listagem paginada, com a referência de
// cliente resolvida — o formato que a tela de histórico consome.
type TransactionSummary struct {
	ID              string        `json:"_id"`
	CustomID        string        `json:"customId"`
	TotalPrice      float64       `json:"totalPrice"`
	TransactionDate time.Time     `json:"transactionDate"`
	RecievedAmount  float64       `json:"recievedAmount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Customer        *Customer     `json:"customer,omitempty"`
	ChequeNo        string        `json:"chequeNo,omitempty"`
	ChequeDueDate   *time.Time    `json:"chequeDueDate,omitempty"`
}

// TransactionPage é a resposta da listagem: total para paginação + página.
type TransactionPage struct {
	TotalSize    int                  `json:"totalSize"`
	Transactions []TransactionSummary `json:"transactions"`
}

// ExportFilter define os filtros do export CSV de vendas.
type ExportFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	IsSuspended *bool
}

// ExportRow é uma linha do CSV de vendas.
type ExportRow struct {
	CustomID        string
	TotalAmount     float64
	RecievedAmount  float64
	TransactionDate time.Time
}

// StockDelta é o efeito líquido de uma venda (ou edição de venda) sobre o
// estoque de loja de um produto. Positivo decrementa SubStockLevel.
type StockDelta struct {
	ProductID string
	Quantity  int
}
