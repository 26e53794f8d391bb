package brand

import (
	"context"
	"encoding/json"
	"net/http"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// BrandService define o contrato que o Handler espera da camada de Serviço.
type BrandService interface {
	CreateBrand(ctx context.Context, input domain.BrandInput) (domain.Brand, error)
	GetBrandByID(ctx context.Context, id string) (domain.Brand, error)
	ListBrands(ctx context.Context) ([]domain.Brand, error)
	UpdateBrand(ctx context.Context, id string, input domain.BrandInput) (domain.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
}

// Handler agrupa os endpoints do cadastro de marcas.
type Handler struct {
	Service BrandService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de marcas.
func NewHandler(svc BrandService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create godoc
// @Summary Cadastra uma marca
// @Tags brand
// @Accept json
// @Produce json
// @Param brand body domain.BrandInput true "Dados da marca"
// @Success 201 {object} domain.Brand
// @Failure 400 {object} domain.ErrorResponse
// @Router /brand [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.BrandInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	brand, err := h.Service.CreateBrand(r.Context(), input)
	respond.ServiceResponse(h.Logger, w, r, brand, err, http.StatusCreated)
}

// List godoc
// @Summary Lista as marcas cadastradas
// @Tags brand
// @Produce json
// @Success 200 {array} domain.Brand
// @Router /brand [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Service.ListBrands(r.Context())
	respond.ServiceResponse(h.Logger, w, r, brands, err, http.StatusOK)
}

// GetByID godoc
// @Summary Busca uma marca pelo ID
// @Tags brand
// @Produce json
// @Param brandId path string true "ID da marca"
// @Success 200 {object} domain.Brand
// @Failure 404 {object} domain.ErrorResponse
// @Router /brand/{brandId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	brand, err := h.Service.GetBrandByID(r.Context(), r.PathValue("brandId"))
	respond.ServiceResponse(h.Logger, w, r, brand, err, http.StatusOK)
}

// Update godoc
// @Summary Atualiza uma marca
// @Tags brand
// @Accept json
// @Produce json
// @Param brandId path string true "ID da marca"
// @Param brand body domain.BrandInput true "Dados da marca"
// @Success 200 {object} domain.Brand
// @Failure 404 {object} domain.ErrorResponse
// @Router /brand/{brandId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.BrandInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	brand, err := h.Service.UpdateBrand(r.Context(), r.PathValue("brandId"), input)
	respond.ServiceResponse(h.Logger, w, r, brand, err, http.StatusOK)
}

// Delete godoc
// @Summary Remove uma marca
// @Tags brand
// @Param brandId path string true "ID da marca"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /brand/{brandId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteBrand(r.Context(), r.PathValue("brandId"))
	respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusNoContent)
}
