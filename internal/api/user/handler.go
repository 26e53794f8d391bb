package user

import (
	"context"
	"encoding/json"
	"net/http"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// UserService define o contrato que o Handler espera da camada de Serviço.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
}

// Handler agrupa os endpoints de autenticação de operadores.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de usuários.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// Register godoc
// @Summary Cadastra um operador (caixa ou administrador)
// @Tags user
// @Accept json
// @Produce json
// @Param user body domain.UserRegistration true "Dados do operador"
// @Success 201 {object} domain.User
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var registration domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&registration); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	user, err := h.Service.Register(r.Context(), registration)
	respond.ServiceResponse(h.Logger, w, r, user, err, http.StatusCreated)
}

// Login godoc
// @Summary Autentica um operador e retorna o JWT
// @Tags user
// @Accept json
// @Produce json
// @Param credentials body object true "{\"email\": string, \"password\": string}"
// @Success 200 {object} map[string]string
// @Failure 401 {object} domain.ErrorResponse
// @Router /login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	token, err := h.Service.Login(r.Context(), credentials.Email, credentials.Password)
	respond.ServiceResponse(h.Logger, w, r, map[string]string{"token": token}, err, http.StatusOK)
}
