package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	GetProductByID(ctx context.Context, id string) (domain.Product, error)
	GetProductByBarcode(ctx context.Context, code string) (domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error)
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)
	ListLowStock(ctx context.Context, pool domain.StockPool) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	RenderBarcode(ctx context.Context, id string) ([]byte, error)
	ExportCSV(ctx context.Context) ([]byte, error)
}

// Handler agrupa os endpoints do catálogo de pneus.
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de produtos.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create godoc
// @Summary Cadastra um produto
// @Tags product
// @Accept json
// @Produce json
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Router /product [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	product, err := h.Service.CreateProduct(r.Context(), input)
	respond.ServiceResponse(h.Logger, w, r, product, err, http.StatusCreated)
}

// List godoc
// @Summary Lista o catálogo (paginado)
// @Tags product
// @Produce json
// @Param size query string false "Medida (parcial)"
// @Param brand query string false "ID da marca"
// @Param vehicleType query string false "ID do tipo de veículo"
// @Param page query int false "Página (1-based)"
// @Param pageSize query int false "Itens por página"
// @Success 200 {object} domain.ProductPage
// @Router /product [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := domain.ProductFilter{
		Size:        query.Get("size"),
		BrandID:     query.Get("brand"),
		VehicleType: query.Get("vehicleType"),
	}
	if raw := query.Get("page"); raw != "" {
		value, parseErr := strconv.Atoi(raw)
		if parseErr != nil || value < 0 {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("page deve ser um inteiro não negativo."), 0)
			return
		}
		filter.Page = value
	}
	if raw := query.Get("pageSize"); raw != "" {
		value, parseErr := strconv.Atoi(raw)
		if parseErr != nil || value < 0 {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("pageSize deve ser um inteiro não negativo."), 0)
			return
		}
		filter.PageSize = value
	}

	pageResult, err := h.Service.ListProducts(r.Context(), filter)
	respond.ServiceResponse(h.Logger, w, r, pageResult, err, http.StatusOK)
}

// Search godoc
// @Summary Busca produtos por termo livre (medida, desenho ou barcode)
// @Tags product
// @Produce json
// @Param q query string true "Termo de busca"
// @Success 200 {array} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Router /product/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.SearchProducts(r.Context(), r.URL.Query().Get("q"))
	respond.ServiceResponse(h.Logger, w, r, products, err, http.StatusOK)
}

// GetByID godoc
// @Summary Busca um produto pelo ID
// @Tags product
// @Produce json
// @Param productId path string true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/{productId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProductByID(r.Context(), r.PathValue("productId"))
	respond.ServiceResponse(h.Logger, w, r, product, err, http.StatusOK)
}

// GetByBarcode godoc
// @Summary Busca um produto pelo código de barras
// @Tags product
// @Produce json
// @Param barcode path string true "Código de barras"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/barcode/{barcode} [get]
func (h *Handler) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProductByBarcode(r.Context(), r.PathValue("barcode"))
	respond.ServiceResponse(h.Logger, w, r, product, err, http.StatusOK)
}

// LowStockWarehouse godoc
// @Summary Lista produtos com estoque baixo no armazém
// @Tags product
// @Produce json
// @Success 200 {array} domain.Product
// @Router /product/lowstock-warehouse [get]
func (h *Handler) LowStockWarehouse(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListLowStock(r.Context(), domain.WarehousePool)
	respond.ServiceResponse(h.Logger, w, r, products, err, http.StatusOK)
}

// LowStockShop godoc
// @Summary Lista produtos com estoque baixo na loja
// @Tags product
// @Produce json
// @Success 200 {array} domain.Product
// @Router /product/lowstock-shop [get]
func (h *Handler) LowStockShop(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListLowStock(r.Context(), domain.ShopPool)
	respond.ServiceResponse(h.Logger, w, r, products, err, http.StatusOK)
}

// Update godoc
// @Summary Atualiza os dados cadastrais de um produto
// @Tags product
// @Accept json
// @Produce json
// @Param productId path string true "ID do produto"
// @Param product body domain.ProductInput true "Dados do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/{productId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	product, err := h.Service.UpdateProduct(r.Context(), r.PathValue("productId"), input)
	respond.ServiceResponse(h.Logger, w, r, product, err, http.StatusOK)
}

// Delete godoc
// @Summary Remove um produto
// @Tags product
// @Param productId path string true "ID do produto"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/{productId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteProduct(r.Context(), r.PathValue("productId"))
	respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusNoContent)
}

// DownloadBarcode godoc
// @Summary Baixa a etiqueta Code 128 (PNG) de um produto
// @Tags product
// @Produce png
// @Param productId path string true "ID do produto"
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/download-barcode/{productId} [get]
func (h *Handler) DownloadBarcode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Service.RenderBarcode(r.Context(), r.PathValue("productId"))
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, 0)
		return
	}
	respond.File(w, "image/png", "barcode.png", png)
}

// DownloadCSV godoc
// @Summary Baixa o inventário do catálogo em CSV
// @Tags product
// @Produce text/csv
// @Success 200 {file} binary
// @Router /product/csv-download [get]
func (h *Handler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	csvBytes, err := h.Service.ExportCSV(r.Context())
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, 0)
		return
	}
	respond.File(w, "text/csv", "products.csv", csvBytes)
}
