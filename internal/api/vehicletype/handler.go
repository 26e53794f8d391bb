package vehicletype

import (
	"context"
	"encoding/json"
	"net/http"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// VehicleTypeService define o contrato que o Handler espera da camada de Serviço.
type VehicleTypeService interface {
	CreateVehicleType(ctx context.Context, input domain.VehicleTypeInput) (domain.VehicleType, error)
	GetVehicleTypeByID(ctx context.Context, id string) (domain.VehicleType, error)
	ListVehicleTypes(ctx context.Context) ([]domain.VehicleType, error)
	UpdateVehicleType(ctx context.Context, id string, input domain.VehicleTypeInput) (domain.VehicleType, error)
	DeleteVehicleType(ctx context.Context, id string) error
}

// Handler agrupa os endpoints do cadastro de tipos de veículo.
type Handler struct {
	Service VehicleTypeService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de tipos de veículo.
func NewHandler(svc VehicleTypeService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create godoc
// @Summary Cadastra um tipo de veículo
// @Tags vehicle
// @Accept json
// @Produce json
// @Param vehicleType body domain.VehicleTypeInput true "Dados do tipo de veículo"
// @Success 201 {object} domain.VehicleType
// @Failure 400 {object} domain.ErrorResponse
// @Router /vehicle [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.VehicleTypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	vt, err := h.Service.CreateVehicleType(r.Context(), input)
	respond.ServiceResponse(h.Logger, w, r, vt, err, http.StatusCreated)
}

// List godoc
// @Summary Lista os tipos de veículo cadastrados
// @Tags vehicle
// @Produce json
// @Success 200 {array} domain.VehicleType
// @Router /vehicle [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.Service.ListVehicleTypes(r.Context())
	respond.ServiceResponse(h.Logger, w, r, types, err, http.StatusOK)
}

// GetByID godoc
// @Summary Busca um tipo de veículo pelo ID
// @Tags vehicle
// @Produce json
// @Param vehicleId path string true "ID do tipo de veículo"
// @Success 200 {object} domain.VehicleType
// @Failure 404 {object} domain.ErrorResponse
// @Router /vehicle/{vehicleId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	vt, err := h.Service.GetVehicleTypeByID(r.Context(), r.PathValue("vehicleId"))
	respond.ServiceResponse(h.Logger, w, r, vt, err, http.StatusOK)
}

// Update godoc
// @Summary Atualiza um tipo de veículo
// @Tags vehicle
// @Accept json
// @Produce json
// @Param vehicleId path string true "ID do tipo de veículo"
// @Param vehicleType body domain.VehicleTypeInput true "Dados do tipo de veículo"
// @Success 200 {object} domain.VehicleType
// @Failure 404 {object} domain.ErrorResponse
// @Router /vehicle/{vehicleId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.VehicleTypeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	vt, err := h.Service.UpdateVehicleType(r.Context(), r.PathValue("vehicleId"), input)
	respond.ServiceResponse(h.Logger, w, r, vt, err, http.StatusOK)
}

// Delete godoc
// @Summary Remove um tipo de veículo
// @Tags vehicle
// @Param vehicleId path string true "ID do tipo de veículo"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /vehicle/{vehicleId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteVehicleType(r.Context(), r.PathValue("vehicleId"))
	respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusNoContent)
}
