package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gotire/internal/api/brand"
	"gotire/internal/api/customer"
	"gotire/internal/api/product"
	"gotire/internal/api/stock"
	"gotire/internal/api/transaction"
	"gotire/internal/api/user"
	"gotire/internal/api/vehicletype"
)

// Middleware envolve um http.Handler (camada global: CORS, rate limit).
type Middleware func(http.Handler) http.Handler

// RouteGuard envolve um http.HandlerFunc (camada por rota: auth, permissão).
type RouteGuard func(http.HandlerFunc) http.HandlerFunc

// Handlers agrupa os handlers da API para a montagem das rotas.
type Handlers struct {
	Transaction *transaction.Handler
	Product     *product.Handler
	Stock       *stock.Handler
	Brand       *brand.Handler
	VehicleType *vehicletype.Handler
	Customer    *customer.Handler
	User        *user.Handler
}

// NewRouter monta o roteador da API sobre o ServeMux do net/http (padrões
// com método e path parameters do Go 1.22+).
//
// As rotas destrutivas (DELETE) exigem token válido com role admin; o resto
// da API é aberto ao balcão. Os middlewares globais envolvem o mux inteiro,
// na ordem recebida.
func NewRouter(h Handlers, requireAdmin RouteGuard, globals ...Middleware) http.Handler {
	mux := http.NewServeMux()

	// Health check e documentação
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Vendas
	mux.HandleFunc("POST /transaction", h.Transaction.Create)
	mux.HandleFunc("PUT /transaction", h.Transaction.Resume)
	mux.HandleFunc("GET /transaction", h.Transaction.List)
	mux.HandleFunc("GET /transaction/suspended-sales", h.Transaction.SuspendedSales)
	mux.HandleFunc("GET /transaction/current-month-average", h.Transaction.CurrentMonthTotal)
	mux.HandleFunc("GET /transaction/download", h.Transaction.Download)
	mux.HandleFunc("PATCH /transaction/isCompleted/{transactionId}", h.Transaction.ToggleCompleted)
	mux.HandleFunc("PATCH /transaction/update-received-amount/{transactionId}", h.Transaction.UpdateReceivedAmount)
	mux.HandleFunc("DELETE /transaction/{transactionId}", requireAdmin(h.Transaction.Delete))

	// Catálogo de produtos
	mux.HandleFunc("POST /product", h.Product.Create)
	mux.HandleFunc("GET /product", h.Product.List)
	mux.HandleFunc("GET /product/search", h.Product.Search)
	mux.HandleFunc("GET /product/barcode/{barcode}", h.Product.GetByBarcode)
	mux.HandleFunc("GET /product/lowstock-warehouse", h.Product.LowStockWarehouse)
	mux.HandleFunc("GET /product/lowstock-shop", h.Product.LowStockShop)
	mux.HandleFunc("GET /product/csv-download", h.Product.DownloadCSV)
	mux.HandleFunc("GET /product/download-barcode/{productId}", h.Product.DownloadBarcode)
	mux.HandleFunc("GET /product/{productId}", h.Product.GetByID)
	mux.HandleFunc("PUT /product/{productId}", h.Product.Update)
	mux.HandleFunc("DELETE /product/{productId}", requireAdmin(h.Product.Delete))

	// Estoque (reposição e transferência armazém -> loja)
	mux.HandleFunc("PATCH /product/increase/{productId}", h.Stock.Increase)
	mux.HandleFunc("PATCH /product/update-stock/{productId}", h.Stock.Transfer)

	// Cadastros auxiliares
	mux.HandleFunc("POST /brand", h.Brand.Create)
	mux.HandleFunc("GET /brand", h.Brand.List)
	mux.HandleFunc("GET /brand/{brandId}", h.Brand.GetByID)
	mux.HandleFunc("PUT /brand/{brandId}", h.Brand.Update)
	mux.HandleFunc("DELETE /brand/{brandId}", requireAdmin(h.Brand.Delete))

	mux.HandleFunc("POST /vehicle", h.VehicleType.Create)
	mux.HandleFunc("GET /vehicle", h.VehicleType.List)
	mux.HandleFunc("GET /vehicle/{vehicleId}", h.VehicleType.GetByID)
	mux.HandleFunc("PUT /vehicle/{vehicleId}", h.VehicleType.Update)
	mux.HandleFunc("DELETE /vehicle/{vehicleId}", requireAdmin(h.VehicleType.Delete))

	mux.HandleFunc("POST /customer", h.Customer.Create)
	mux.HandleFunc("GET /customer", h.Customer.List)
	mux.HandleFunc("GET /customer/search", h.Customer.Search)
	mux.HandleFunc("GET /customer/{customerId}", h.Customer.GetByID)
	mux.HandleFunc("PUT /customer/{customerId}", h.Customer.Update)
	mux.HandleFunc("DELETE /customer/{customerId}", requireAdmin(h.Customer.Delete))

	// Operadores
	mux.HandleFunc("POST /register", h.User.Register)
	mux.HandleFunc("POST /login", h.User.Login)

	// Middlewares globais (o primeiro da lista é o mais externo).
	var handler http.Handler = mux
	for i := len(globals) - 1; i >= 0; i-- {
		handler = globals[i](handler)
	}
	return handler
}

// PingHandler é o health check da API.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
