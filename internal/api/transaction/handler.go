package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"gotire/internal/api/respond"
	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// Formato de data aceito nos filtros da query string.
const queryDateLayout = "2006-01-02"

// TransactionService define o contrato que o Handler espera da camada de Serviço.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error)
	ResumeTransaction(ctx context.Context, input domain.TransactionUpdateInput) (domain.Transaction, error)
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error)
	ListSuspended(ctx context.Context) ([]domain.Transaction, error)
	ToggleCompleted(ctx context.Context, id string, completed bool) (domain.Transaction, error)
	AdjustReceivedAmount(ctx context.Context, id string, delta float64) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	MonthlyTotal(ctx context.Context) (float64, error)
	ExportCSV(ctx context.Context, filter domain.ExportFilter) ([]byte, error)
}

// Handler agrupa os endpoints do registro de vendas.
type Handler struct {
	Service TransactionService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler de vendas.
func NewHandler(svc TransactionService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// parseDateRange lê startDate/endDate da query ("AAAA-MM-DD"). endDate é
// inclusivo até o fim do dia.
func parseDateRange(query map[string][]string) (start, end *time.Time, err error) {
	get := func(key string) string {
		if values, ok := query[key]; ok && len(values) > 0 {
			return values[0]
		}
		return ""
	}

	if raw := get("startDate"); raw != "" {
		t, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			return nil, nil, apperror.NewValidationError("startDate inválida. Use o formato AAAA-MM-DD.")
		}
		start = &t
	}
	if raw := get("endDate"); raw != "" {
		t, parseErr := time.Parse(queryDateLayout, raw)
		if parseErr != nil {
			return nil, nil, apperror.NewValidationError("endDate inválida. Use o formato AAAA-MM-DD.")
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		end = &endOfDay
	}
	return start, end, nil
}

// Create godoc
// @Summary Registra uma venda (efetiva ou rascunho suspenso)
// @Tags transaction
// @Accept json
// @Produce json
// @Param transaction body domain.TransactionInput true "Dados da venda"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /transaction [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	txn, err := h.Service.CreateTransaction(r.Context(), input)
	respond.ServiceResponse(h.Logger, w, r, txn, err, http.StatusCreated)
}

// Resume godoc
// @Summary Retoma/edita uma venda, substituindo os itens por inteiro
// @Tags transaction
// @Accept json
// @Produce json
// @Param transaction body domain.TransactionUpdateInput true "Dados da venda"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /transaction [put]
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	var input domain.TransactionUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	txn, err := h.Service.ResumeTransaction(r.Context(), input)
	respond.ServiceResponse(h.Logger, w, r, txn, err, http.StatusOK)
}

// List godoc
// @Summary Lista o histórico de vendas (filtros + paginação)
// @Tags transaction
// @Produce json
// @Param startDate query string false "Data inicial (AAAA-MM-DD)"
// @Param endDate query string false "Data final, inclusiva (AAAA-MM-DD)"
// @Param paymentMethod query string false "cash | cheque | running-account"
// @Param isSuspended query bool false "Filtra por suspensão"
// @Param isCompleted query bool false "Filtra por conclusão"
// @Param customer query string false "ID do cliente"
// @Param page query int false "Página (1-based)"
// @Param limit query int false "Itens por página"
// @Success 200 {object} domain.TransactionPage
// @Failure 400 {object} domain.ErrorResponse
// @Router /transaction [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, end, err := parseDateRange(query)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, 0)
		return
	}

	filter := domain.TransactionFilter{
		StartDate:     start,
		EndDate:       end,
		PaymentMethod: domain.PaymentMethod(query.Get("paymentMethod")),
		CustomerID:    query.Get("customer"),
	}
	if raw := query.Get("isSuspended"); raw != "" {
		value, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("isSuspended deve ser booleano."), 0)
			return
		}
		filter.IsSuspended = &value
	}
	if raw := query.Get("isCompleted"); raw != "" {
		value, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("isCompleted deve ser booleano."), 0)
			return
		}
		filter.IsCompleted = &value
	}
	if raw := query.Get("page"); raw != "" {
		value, parseErr := strconv.Atoi(raw)
		if parseErr != nil || value < 0 {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("page deve ser um inteiro não negativo."), 0)
			return
		}
		filter.Page = value
	}
	if raw := query.Get("limit"); raw != "" {
		value, parseErr := strconv.Atoi(raw)
		if parseErr != nil || value < 0 {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("limit deve ser um inteiro não negativo."), 0)
			return
		}
		filter.Limit = value
	}

	page, err := h.Service.ListTransactions(r.Context(), filter)
	respond.ServiceResponse(h.Logger, w, r, page, err, http.StatusOK)
}

// SuspendedSales godoc
// @Summary Lista as vendas suspensas com os itens resolvidos
// @Tags transaction
// @Produce json
// @Success 200 {array} domain.Transaction
// @Router /transaction/suspended-sales [get]
func (h *Handler) SuspendedSales(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.Service.ListSuspended(r.Context())
	respond.ServiceResponse(h.Logger, w, r, transactions, err, http.StatusOK)
}

// CurrentMonthTotal godoc
// @Summary Total de vendas fechadas do mês corrente
// @Tags transaction
// @Produce json
// @Success 200 {object} map[string]float64
// @Router /transaction/current-month-average [get]
func (h *Handler) CurrentMonthTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.Service.MonthlyTotal(r.Context())
	respond.ServiceResponse(h.Logger, w, r, map[string]float64{"totalAmount": total}, err, http.StatusOK)
}

// ToggleCompleted godoc
// @Summary Grava o flag de conclusão de uma venda
// @Tags transaction
// @Accept json
// @Produce json
// @Param transactionId path string true "ID da venda"
// @Param request body object true "{\"isCompleted\": bool}"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Router /transaction/isCompleted/{transactionId} [patch]
func (h *Handler) ToggleCompleted(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsCompleted *bool `json:"isCompleted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IsCompleted == nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("isCompleted deve ser booleano."), 0)
		return
	}

	txn, err := h.Service.ToggleCompleted(r.Context(), r.PathValue("transactionId"), *body.IsCompleted)
	respond.ServiceResponse(h.Logger, w, r, txn, err, http.StatusOK)
}

// UpdateReceivedAmount godoc
// @Summary Soma um valor ao recebido da venda (aditivo, apesar do nome do campo)
// @Tags transaction
// @Accept json
// @Produce json
// @Param transactionId path string true "ID da venda"
// @Param request body object true "{\"deductAmount\": number}"
// @Success 200 {object} domain.Transaction
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Router /transaction/update-received-amount/{transactionId} [patch]
func (h *Handler) UpdateReceivedAmount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DeductAmount *float64 `json:"deductAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeductAmount == nil {
		respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("deductAmount deve ser numérico."), 0)
		return
	}

	txn, err := h.Service.AdjustReceivedAmount(r.Context(), r.PathValue("transactionId"), *body.DeductAmount)
	respond.ServiceResponse(h.Logger, w, r, txn, err, http.StatusOK)
}

// Delete godoc
// @Summary Remove uma venda em definitivo (sem estorno de estoque)
// @Tags transaction
// @Param transactionId path string true "ID da venda"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /transaction/{transactionId} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteTransaction(r.Context(), r.PathValue("transactionId"))
	respond.ServiceResponse(h.Logger, w, r, nil, err, http.StatusNoContent)
}

// Download godoc
// @Summary Baixa o relatório de vendas em CSV
// @Tags transaction
// @Produce text/csv
// @Param startDate query string false "Data inicial (AAAA-MM-DD)"
// @Param endDate query string false "Data final, inclusiva (AAAA-MM-DD)"
// @Param isSuspended query bool false "Filtra por suspensão"
// @Success 200 {file} binary
// @Failure 400 {object} domain.ErrorResponse
// @Router /transaction/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, end, err := parseDateRange(query)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, 0)
		return
	}

	filter := domain.ExportFilter{StartDate: start, EndDate: end}
	if raw := query.Get("isSuspended"); raw != "" {
		value, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			respond.ServiceResponse(h.Logger, w, r, nil, apperror.NewValidationError("isSuspended deve ser booleano."), 0)
			return
		}
		filter.IsSuspended = &value
	}

	csvBytes, err := h.Service.ExportCSV(r.Context(), filter)
	if err != nil {
		respond.ServiceResponse(h.Logger, w, r, nil, err, 0)
		return
	}
	respond.File(w, "text/csv", "transactions.csv", csvBytes)
}
