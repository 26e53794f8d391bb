package customer

import (
	"context"
	"encoding/json"
	"net/http"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// CustomerService define o contrato que o Handler espera da camada de Serviço.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input domain.CustomerInput) (domain.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (domain.Customer, error)
	ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input domain.CustomerInput) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

// Handler agrupa os endpoints do cadastro de clientes.
type Handler struct {
	Service CustomerService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de clientes.
func NewHandler(svc CustomerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Create godoc
// @Summary Cadastra um cliente
// @Tags customer
// @Accept json
// @Produce json
// @Param customer body domain.CustomerInput true "Dados do cliente"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} domain.ErrorResponse
// @Router /customer [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	customer, err := h.Service.CreateCustomer(r.Context(), input)
	respond.ServiceResponse(h.Logger, w, r, customer, err, http.StatusCreated)
}

// List godoc
// @Summary Lista todos os clientes
// @Tags customer
// @Produce json
// @Success 200 {array} domain.Customer
// @Router /customer [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context(), domain.CustomerFilter{})
	respond.ServiceResponse(h.Logger, w, r, customers, err, http.StatusOK)
}

// Search godoc
// @Summary Busca clientes por nome, telefone ou endereço
// @Tags customer
// @Produce json
// @Param name query string false "Nome (parcial)"
// @Param phoneNumber query string false "Telefone (parcial)"
// @Param address query string false "Endereço (parcial)"
// @Success 200 {array} domain.Customer
// @Router /customer/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.CustomerFilter{
		Name:        query.Get("name"),
		PhoneNumber: query.Get("phoneNumber"),
		Address:     query.Get("address"),
	}

	customers, err := h.Service.ListCustomers(r.Context(), filter)
	respond.ServiceResponse(h.Logger, w, r, customers, err, http.StatusOK)
}

// GetByID godoc
// @Summary Busca um cliente pelo ID
// @Tags customer
// @Produce json
// @Param customerId path string true "ID do cliente"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} domain.ErrorResponse
// @Router /customer/{customerId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	customer, err := h.Service.GetCustomerByID(r.Context(), r.PathValue("customerId"))
	respond.ServiceResponse(h.Logger, w, r, customer, err, http.StatusOK)
}

// Update godoc
// @Summary Atualiza um cliente
// @Tags customer
// @Accept json
// @Produce json
// @Param customerId path string true "ID do cliente"
// @Param customer body domain.CustomerInput true "Dados do cliente"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} domain.ErrorResponse
// @Router /customer/{customerId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	customer, err := h.Service.UpdateCustomer(r.Context(), r.PathValue("customerId"), input)
	respond.ServiceResponse(h.Logger, w, r, customer, err, http.StatusOK)
}

// Delete godoc
// @Summary Remove um cliente
// @Tags customer
// @Param customerId path string true "ID do cliente"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /customer/{customerId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteCustomer(r.Context(), r.PathValue("customerId"))
	respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusNoContent)
}
