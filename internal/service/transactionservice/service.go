package transactionservice

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/cache"
	"gotire/internal/pkg/logger"
)

// Formato de data do CSV de vendas e chave/TTL do cache do total mensal.
const (
	exportDateLayout     = "2006-01-02"
	monthlyTotalKeyFmt   = "report:monthly-total:%s"
	monthlyTotalCacheTTL = time.Minute
)

// TransactionRepository define o contrato que o Serviço de Vendas espera da
// camada de Persistência.
type TransactionRepository interface {
	NextCustomIDNumber(ctx context.Context) (int64, error)
	LatestCustomID(ctx context.Context) (string, error)
	AdvanceCustomIDSequence(ctx context.Context, n int64) error

	Create(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error)
	Update(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error)
	FindByID(ctx context.Context, id string) (domain.Transaction, error)
	Find(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error)
	FindSuspended(ctx context.Context) ([]domain.Transaction, error)
	SumTotals(ctx context.Context, from, to time.Time) (float64, error)
	SetCompleted(ctx context.Context, id string, completed bool) (domain.Transaction, error)
	AddReceivedAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error)
	Delete(ctx context.Context, id string) error
	FindForExport(ctx context.Context, filter domain.ExportFilter) ([]domain.ExportRow, error)
}

// Service implementa o núcleo do sistema: o registro de vendas e sua
// reconciliação com o estoque de loja.
type Service struct {
	repo   TransactionRepository
	cache  cache.Client
	logger logger.Logger

	// now é injetável para os testes de janela mensal.
	now func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Vendas.
func NewService(repo TransactionRepository, cacheClient cache.Client, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cacheClient,
		logger: logger,
		now:    time.Now,
	}
}

// SyncCustomIDSequence realinha a sequência de recibos com o maior customId
// já persistido. Chamado uma vez na subida; depois disso a numeração vem
// exclusivamente da sequência do banco. O realinhamento só avança: uma
// sequência à frente dos dados (venda mais recente excluída) não retrocede,
// senão o próximo nextval reemitiria um recibo já usado.
//
// Um customId persistido que não parseia é dado corrompido: falhamos alto em
// vez de chutar um número e arriscar recibos duplicados.
func (s *Service) SyncCustomIDSequence(ctx context.Context) error {
	latest, err := s.repo.LatestCustomID(ctx)
	if err != nil {
		return err
	}
	if latest == "" {
		return nil // base vazia, sequência começa do 1
	}

	n, err := ParseCustomID(latest)
	if err != nil {
		s.logger.Error("customId persistido em formato inválido.", err)
		return apperror.NewInternalError(
			fmt.Sprintf("customId %q persistido em formato inválido; sincronização abortada.", latest), err)
	}

	if err := s.repo.AdvanceCustomIDSequence(ctx, n); err != nil {
		return err
	}

	s.logger.Info("Sequência de recibos sincronizada.", map[string]interface{}{"latest_custom_id": latest})
	return nil
}

// buildLines valida e materializa os itens de venda. O amount de cada item é
// recalculado no servidor (quantidade x preço); o valor vindo do cliente é
// ignorado.
func buildLines(inputs []domain.TransactionLineInput) ([]domain.TransactionLine, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, apperror.NewValidationError("A venda deve ter ao menos um item.")
	}

	lines := make([]domain.TransactionLine, 0, len(inputs))
	var total float64
	for _, in := range inputs {
		if in.Product == "" {
			return nil, 0, apperror.NewValidationError("Todo item da venda deve referenciar um produto.")
		}
		if in.QuantitySold <= 0 {
			return nil, 0, apperror.NewValidationError("A quantidade vendida deve ser maior que zero.")
		}
		if in.Price < 0 {
			return nil, 0, apperror.NewValidationError("O preço do item não pode ser negativo.")
		}

		amount := float64(in.QuantitySold) * in.Price
		total += amount
		lines = append(lines, domain.TransactionLine{
			ProductID:    in.Product,
			QuantitySold: in.QuantitySold,
			Price:        in.Price,
			Amount:       amount,
		})
	}

	return lines, total, nil
}

// CreateTransaction registra uma venda nova (efetiva ou rascunho suspenso).
//
// O customId é emitido pela sequência do banco, então vendas concorrentes
// recebem números distintos. Quando a venda não é suspensa, o débito de
// estoque de loja acontece na mesma transação de banco que grava o cabeçalho
// e os itens — produto desconhecido desfaz tudo, inclusive o débito parcial.
func (s *Service) CreateTransaction(ctx context.Context, input domain.TransactionInput) (domain.Transaction, error) {
	lines, total, err := buildLines(input.Products)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !input.PaymentMethod.Valid() {
		return domain.Transaction{}, apperror.NewValidationError("Forma de pagamento inválida (cash, cheque ou running-account).")
	}

	seq, err := s.repo.NextCustomIDNumber(ctx)
	if err != nil {
		s.logger.Error("Falha ao emitir número de recibo.", err)
		return domain.Transaction{}, err
	}

	txn := domain.Transaction{
		ID:               uuid.New().String(),
		CustomID:         FormatCustomID(seq),
		Products:         lines,
		TotalAmount:      total,
		RecievedAmount:   input.RecievedAmount,
		AdditionalAmount: input.AdditionalAmount,
		Discount:         input.Discount,
		Changefee:        input.Changefee,
		PaymentMethod:    input.PaymentMethod,
		ChequeNo:         input.ChequeNo,
		ChequeDueDate:    input.ChequeDueDate,
		CustomerID:       input.Customer,
		IsSuspended:      input.IsSuspended,
		IsCompleted:      input.IsCompleted,
		TransactionDate:  s.now(),
	}

	// Rascunho suspenso não toca o estoque; a baixa acontece na retomada.
	var deltas []domain.StockDelta
	if !txn.IsSuspended {
		deltas = computeStockDeltas(nil, false, lines)
	}

	created, err := s.repo.Create(ctx, txn, deltas)
	if err != nil {
		s.logger.Error("Falha ao registrar venda.", err)
		return domain.Transaction{}, err
	}

	s.invalidateMonthlyTotal(ctx)
	s.logger.Info("Venda registrada.", map[string]interface{}{
		"transaction_id": created.ID,
		"custom_id":      created.CustomID,
		"is_suspended":   created.IsSuspended,
		"total_amount":   created.TotalAmount,
	})
	return created, nil
}

// ResumeTransaction retoma (ou edita) uma venda: substitui os itens por
// inteiro, recalcula os totais e encerra a suspensão.
//
// O efeito de estoque é o delta entre a lista nova e o que a venda já
// debitou: um rascunho retomado debita a lista final exatamente uma vez;
// uma venda ativa editada debita/devolve apenas a diferença.
func (s *Service) ResumeTransaction(ctx context.Context, input domain.TransactionUpdateInput) (domain.Transaction, error) {
	if input.TransactionID == "" {
		return domain.Transaction{}, apperror.NewValidationError("O ID da venda é obrigatório.")
	}

	lines, total, err := buildLines(input.NewProducts)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !input.PaymentMethod.Valid() {
		return domain.Transaction{}, apperror.NewValidationError("Forma de pagamento inválida (cash, cheque ou running-account).")
	}

	current, err := s.repo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if current.IsCompleted {
		return domain.Transaction{}, apperror.NewConflictError("Venda completa não pode ser editada.")
	}

	wasApplied := !current.IsSuspended
	deltas := computeStockDeltas(current.Products, wasApplied, lines)

	txn := domain.Transaction{
		ID:               current.ID,
		CustomID:         current.CustomID,
		Products:         lines,
		TotalAmount:      total,
		RecievedAmount:   input.RecievedAmount,
		AdditionalAmount: input.AdditionalAmount,
		Discount:         input.Discount,
		Changefee:        input.Changefee,
		PaymentMethod:    input.PaymentMethod,
		ChequeNo:         input.ChequeNo,
		ChequeDueDate:    input.ChequeDueDate,
		CustomerID:       input.Customer,
		IsSuspended:      false,
		IsCompleted:      input.IsCompleted,
		TransactionDate:  current.TransactionDate,
	}
	if txn.CustomerID == "" {
		txn.CustomerID = current.CustomerID
	}

	updated, err := s.repo.Update(ctx, txn, deltas)
	if err != nil {
		s.logger.Error("Falha ao retomar venda.", err)
		return domain.Transaction{}, err
	}

	s.invalidateMonthlyTotal(ctx)
	s.logger.Info("Venda retomada.", map[string]interface{}{
		"transaction_id": updated.ID,
		"custom_id":      updated.CustomID,
		"was_suspended":  current.IsSuspended,
	})
	return updated, nil
}

// ListTransactions retorna uma página do histórico segundo o filtro.
func (s *Service) ListTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	return s.repo.Find(ctx, filter)
}

// ListSuspended retorna as vendas suspensas com os itens resolvidos.
func (s *Service) ListSuspended(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.FindSuspended(ctx)
}

// ToggleCompleted grava o flag de conclusão. Não há interação com o ledger,
// e venda completa não volta a ativa.
func (s *Service) ToggleCompleted(ctx context.Context, id string, completed bool) (domain.Transaction, error) {
	if id == "" {
		return domain.Transaction{}, apperror.NewValidationError("O ID da venda é obrigatório.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}
	if current.IsCompleted && !completed {
		return domain.Transaction{}, apperror.NewConflictError("Venda completa não pode voltar a ativa.")
	}

	updated, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		s.logger.Error("Falha ao atualizar conclusão da venda.", err)
		return domain.Transaction{}, err
	}

	s.invalidateMonthlyTotal(ctx)
	return updated, nil
}

// AdjustReceivedAmount soma delta ao valor recebido da venda. Apesar do nome
// herdado do payload ("deductAmount"), a operação é aditiva.
func (s *Service) AdjustReceivedAmount(ctx context.Context, id string, delta float64) (domain.Transaction, error) {
	if id == "" {
		return domain.Transaction{}, apperror.NewValidationError("O ID da venda é obrigatório.")
	}
	if delta == 0 {
		return domain.Transaction{}, apperror.NewValidationError("O valor do ajuste não pode ser zero.")
	}

	updated, err := s.repo.AddReceivedAmount(ctx, id, delta)
	if err != nil {
		s.logger.Error("Falha ao ajustar valor recebido.", err)
		return domain.Transaction{}, err
	}

	s.logger.Info("Valor recebido ajustado.", map[string]interface{}{
		"transaction_id":  updated.ID,
		"delta":           delta,
		"recieved_amount": updated.RecievedAmount,
	})
	return updated, nil
}

// DeleteTransaction remove uma venda em definitivo. O estoque vendido não é
// devolvido: exclusão é correção de registro, não estorno.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID da venda é obrigatório.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover venda.", err)
		return err
	}

	s.invalidateMonthlyTotal(ctx)
	s.logger.Info("Venda removida.", map[string]interface{}{"transaction_id": id})
	return nil
}

// MonthlyTotal soma o totalAmount das vendas fechadas do mês corrente
// (calendário local do servidor). O resultado fica em cache por um TTL
// curto e é invalidado por qualquer escrita de venda.
func (s *Service) MonthlyTotal(ctx context.Context) (float64, error) {
	now := s.now()
	key := fmt.Sprintf(monthlyTotalKeyFmt, now.Format("2006-01"))

	if cached, err := s.cache.Get(ctx, key); err == nil {
		if total, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
			return total, nil
		}
	}

	firstDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastDay := firstDay.AddDate(0, 1, 0).Add(-time.Nanosecond)

	total, err := s.repo.SumTotals(ctx, firstDay, lastDay)
	if err != nil {
		s.logger.Error("Falha ao calcular total mensal.", err)
		return 0, err
	}

	s.cache.Set(ctx, key, strconv.FormatFloat(total, 'f', -1, 64), monthlyTotalCacheTTL)
	return total, nil
}

// invalidateMonthlyTotal descarta o cache do total do mês corrente.
func (s *Service) invalidateMonthlyTotal(ctx context.Context) {
	key := fmt.Sprintf(monthlyTotalKeyFmt, s.now().Format("2006-01"))
	s.cache.Delete(ctx, key)
}

// ExportCSV gera o relatório plano de vendas: uma linha por venda, com
// número do recibo, total, valor recebido e data (AAAA-MM-DD).
func (s *Service) ExportCSV(ctx context.Context, filter domain.ExportFilter) ([]byte, error) {
	rows, err := s.repo.FindForExport(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Bill No", "Total Amount", "Received Amount", "Date"}); err != nil {
		return nil, apperror.NewInternalError("Falha ao escrever cabeçalho do CSV.", err)
	}

	for _, row := range rows {
		record := []string{
			row.CustomID,
			fmt.Sprintf("%.2f", row.TotalAmount),
			fmt.Sprintf("%.2f", row.RecievedAmount),
			row.TransactionDate.Format(exportDateLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, apperror.NewInternalError("Falha ao escrever linha do CSV.", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperror.NewInternalError("Falha ao finalizar CSV de vendas.", err)
	}

	return buf.Bytes(), nil
}
