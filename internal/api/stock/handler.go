package stock

import (
	"context"
	"encoding/json"
	"net/http"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	IncreaseStock(ctx context.Context, productID string, req domain.StockRequest) (domain.Product, error)
	TransferStock(ctx context.Context, productID string, req domain.StockRequest) (domain.Product, error)
}

// Handler agrupa os endpoints de mutação de estoque (reposição e transferência).
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de estoque.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Increase godoc
// @Summary Repõe unidades no estoque do armazém
// @Tags stock
// @Accept json
// @Produce json
// @Param productId path string true "ID do produto"
// @Param request body domain.StockRequest true "Quantidade a repor"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/increase/{productId} [patch]
func (h *Handler) Increase(w http.ResponseWriter, r *http.Request) {
	var req domain.StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	product, err := h.Service.IncreaseStock(r.Context(), r.PathValue("productId"), req)
	respond.ServiceResponse(h.Logger, w, r, product, err, http.StatusOK)
}

// Transfer godoc
// @Summary Transfere unidades do armazém para o piso da loja
// @Tags stock
// @Accept json
// @Produce json
// @Param productId path string true "ID do produto"
// @Param request body domain.StockRequest true "Quantidade a transferir"
// @Success 200 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /product/update-stock/{productId} [patch]
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req domain.StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	product, err := h.Service.TransferStock(r.Context(), r.PathValue("productId"), req)
	respond.ServiceResponse(h.Logger, w, r, product, err, http.StatusOK)
}
