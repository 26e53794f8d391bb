package transactionservice

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/cache"
	"gotire/internal/pkg/logger"
)

// MockTransactionRepository é uma implementação mock da interface TransactionRepository.
// As escritas (Create/Update) ecoam a venda recebida, como o repositório real.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) NextCustomIDNumber(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) LatestCustomID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTransactionRepository) AdvanceCustomIDSequence(ctx context.Context, n int64) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error) {
	args := m.Called(ctx, txn, deltas)
	if args.Error(1) != nil {
		return domain.Transaction{}, args.Error(1)
	}
	return txn, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error) {
	args := m.Called(ctx, txn, deltas)
	if args.Error(1) != nil {
		return domain.Transaction{}, args.Error(1)
	}
	return txn, nil
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id string) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Find(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionPage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(domain.TransactionPage), args.Error(1)
}

func (m *MockTransactionRepository) FindSuspended(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumTotals(ctx context.Context, from, to time.Time) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTransactionRepository) SetCompleted(ctx context.Context, id string, completed bool) (domain.Transaction, error) {
	args := m.Called(ctx, id, completed)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) AddReceivedAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindForExport(ctx context.Context, filter domain.ExportFilter) ([]domain.ExportRow, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.ExportRow), args.Error(1)
}

// fakeCache é um cache em memória para os testes de relatório.
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := c.data[key]; ok {
		return value, nil
	}
	return "", cache.ErrCacheMiss
}

func (c *fakeCache) GetInt(ctx context.Context, key string) (int, error) {
	return 0, cache.ErrCacheMiss
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) error { return nil }

func (c *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func newTestService(repo *MockTransactionRepository) *Service {
	return NewService(repo, newFakeCache(), logger.NewLogger("debug"))
}

// TestCreateTransaction_Success_AppliesStockPerLine testa o cenário fim a fim
// da criação efetiva: total calculado no servidor, recibo MOH00001 e um
// débito de estoque de loja por item.
func TestCreateTransaction_Success_AppliesStockPerLine(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	p1 := uuid.New().String()
	p2 := uuid.New().String()

	var capturedDeltas []domain.StockDelta
	mockRepo.On("NextCustomIDNumber", mock.Anything).Return(int64(1), nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("domain.Transaction"), mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDeltas = args.Get(2).([]domain.StockDelta)
		}).
		Return(domain.Transaction{}, nil)

	input := domain.TransactionInput{
		Products: []domain.TransactionLineInput{
			{Product: p1, QuantitySold: 3, Price: 100},
			{Product: p2, QuantitySold: 2, Price: 50, Amount: 999}, // amount do cliente é ignorado
		},
		PaymentMethod: domain.PaymentCash,
	}

	result, err := svc.CreateTransaction(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "MOH00001", result.CustomID)
	assert.Equal(t, 400.0, result.TotalAmount)
	assert.Equal(t, 300.0, result.Products[0].Amount)
	assert.Equal(t, 100.0, result.Products[1].Amount)
	assert.Equal(t, []domain.StockDelta{{ProductID: p1, Quantity: 3}, {ProductID: p2, Quantity: 2}}, capturedDeltas)
	mockRepo.AssertExpectations(t)
}

// TestCreateTransaction_SequentialCustomIDs testa que vendas consecutivas
// recebem recibos consecutivos.
func TestCreateTransaction_SequentialCustomIDs(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("NextCustomIDNumber", mock.Anything).Return(int64(1), nil).Once()
	mockRepo.On("NextCustomIDNumber", mock.Anything).Return(int64(2), nil).Once()
	mockRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(domain.Transaction{}, nil)

	input := domain.TransactionInput{
		Products:      []domain.TransactionLineInput{{Product: uuid.New().String(), QuantitySold: 1, Price: 10}},
		PaymentMethod: domain.PaymentCash,
	}

	first, err := svc.CreateTransaction(context.Background(), input)
	assert.NoError(t, err)
	second, err := svc.CreateTransaction(context.Background(), input)
	assert.NoError(t, err)

	assert.Equal(t, "MOH00001", first.CustomID)
	assert.Equal(t, "MOH00002", second.CustomID)
	mockRepo.AssertExpectations(t)
}

// TestCreateTransaction_Suspended_NoStockEffect testa que um rascunho
// suspenso não gera nenhum delta de estoque.
func TestCreateTransaction_Suspended_NoStockEffect(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	var capturedDeltas []domain.StockDelta
	mockRepo.On("NextCustomIDNumber", mock.Anything).Return(int64(7), nil)
	mockRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDeltas = args.Get(2).([]domain.StockDelta)
		}).
		Return(domain.Transaction{}, nil)

	input := domain.TransactionInput{
		Products:      []domain.TransactionLineInput{{Product: uuid.New().String(), QuantitySold: 5, Price: 1000}},
		PaymentMethod: domain.PaymentCash,
		IsSuspended:   true,
	}

	result, err := svc.CreateTransaction(context.Background(), input)

	assert.NoError(t, err)
	assert.True(t, result.IsSuspended)
	assert.Empty(t, capturedDeltas)
	mockRepo.AssertExpectations(t)
}

// TestCreateTransaction_Fail_EmptyLines testa a rejeição de venda sem itens.
func TestCreateTransaction_Fail_EmptyLines(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	_, err := svc.CreateTransaction(context.Background(), domain.TransactionInput{PaymentMethod: domain.PaymentCash})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "NextCustomIDNumber", mock.Anything)
}

// TestCreateTransaction_Fail_InvalidPaymentMethod testa a validação da forma
// de pagamento antes de consumir um número de recibo.
func TestCreateTransaction_Fail_InvalidPaymentMethod(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	input := domain.TransactionInput{
		Products:      []domain.TransactionLineInput{{Product: uuid.New().String(), QuantitySold: 1, Price: 10}},
		PaymentMethod: "pix",
	}

	_, err := svc.CreateTransaction(context.Background(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "NextCustomIDNumber", mock.Anything)
}

// TestResumeTransaction_Suspended_AppliesOnce testa a retomada de um rascunho:
// o débito acontece exatamente uma vez, com a lista final de itens.
func TestResumeTransaction_Suspended_AppliesOnce(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	p1 := uuid.New().String()

	current := domain.Transaction{
		ID:          txnID,
		CustomID:    "MOH00003",
		IsSuspended: true,
		Products:    []domain.TransactionLine{{ProductID: p1, QuantitySold: 5, Price: 1000, Amount: 5000}},
	}

	var capturedDeltas []domain.StockDelta
	mockRepo.On("FindByID", mock.Anything, txnID).Return(current, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDeltas = args.Get(2).([]domain.StockDelta)
		}).
		Return(domain.Transaction{}, nil)

	input := domain.TransactionUpdateInput{
		TransactionID: txnID,
		NewProducts:   []domain.TransactionLineInput{{Product: p1, QuantitySold: 5, Price: 1000}},
		PaymentMethod: domain.PaymentCash,
	}

	result, err := svc.ResumeTransaction(context.Background(), input)

	assert.NoError(t, err)
	assert.False(t, result.IsSuspended)
	assert.Equal(t, "MOH00003", result.CustomID) // o recibo original é preservado
	assert.Equal(t, 5000.0, result.TotalAmount)
	assert.Equal(t, []domain.StockDelta{{ProductID: p1, Quantity: 5}}, capturedDeltas)
	mockRepo.AssertExpectations(t)
}

// TestResumeTransaction_ActiveEdit_DeltaOnly testa a edição de venda ativa:
// só a diferença entre listas toca o estoque.
func TestResumeTransaction_ActiveEdit_DeltaOnly(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	p1 := uuid.New().String()
	p2 := uuid.New().String()

	current := domain.Transaction{
		ID:          txnID,
		IsSuspended: false,
		Products: []domain.TransactionLine{
			{ProductID: p1, QuantitySold: 3, Price: 100, Amount: 300},
			{ProductID: p2, QuantitySold: 2, Price: 50, Amount: 100},
		},
	}

	var capturedDeltas []domain.StockDelta
	mockRepo.On("FindByID", mock.Anything, txnID).Return(current, nil)
	mockRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedDeltas = args.Get(2).([]domain.StockDelta)
		}).
		Return(domain.Transaction{}, nil)

	input := domain.TransactionUpdateInput{
		TransactionID: txnID,
		NewProducts: []domain.TransactionLineInput{
			{Product: p1, QuantitySold: 5, Price: 100}, // +2
			// p2 removido: devolve 2
		},
		PaymentMethod: domain.PaymentCash,
	}

	_, err := svc.ResumeTransaction(context.Background(), input)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []domain.StockDelta{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: -2},
	}, capturedDeltas)
	mockRepo.AssertExpectations(t)
}

// TestResumeTransaction_Fail_Completed testa que venda completa não pode ser editada.
func TestResumeTransaction_Fail_Completed(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, txnID).
		Return(domain.Transaction{ID: txnID, IsCompleted: true}, nil)

	input := domain.TransactionUpdateInput{
		TransactionID: txnID,
		NewProducts:   []domain.TransactionLineInput{{Product: uuid.New().String(), QuantitySold: 1, Price: 10}},
		PaymentMethod: domain.PaymentCash,
	}

	_, err := svc.ResumeTransaction(context.Background(), input)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// TestToggleCompleted_Success testa o fechamento de uma venda ativa.
func TestToggleCompleted_Success(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, txnID).Return(domain.Transaction{ID: txnID}, nil)
	mockRepo.On("SetCompleted", mock.Anything, txnID, true).
		Return(domain.Transaction{ID: txnID, IsCompleted: true}, nil)

	result, err := svc.ToggleCompleted(context.Background(), txnID, true)

	assert.NoError(t, err)
	assert.True(t, result.IsCompleted)
	mockRepo.AssertExpectations(t)
}

// TestToggleCompleted_Fail_CompletedToActive testa que venda completa não
// volta a ativa.
func TestToggleCompleted_Fail_CompletedToActive(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, txnID).
		Return(domain.Transaction{ID: txnID, IsCompleted: true}, nil)

	_, err := svc.ToggleCompleted(context.Background(), txnID, false)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertNotCalled(t, "SetCompleted", mock.Anything, mock.Anything, mock.Anything)
}

// TestAdjustReceivedAmount_Additive testa que o ajuste soma (100 + 50 = 150),
// apesar do nome "deductAmount" herdado do payload.
func TestAdjustReceivedAmount_Additive(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	mockRepo.On("AddReceivedAmount", mock.Anything, txnID, 50.0).
		Return(domain.Transaction{ID: txnID, RecievedAmount: 150}, nil)

	result, err := svc.AdjustReceivedAmount(context.Background(), txnID, 50)

	assert.NoError(t, err)
	assert.Equal(t, 150.0, result.RecievedAmount)
	mockRepo.AssertExpectations(t)
}

// TestAdjustReceivedAmount_Fail_Zero testa a rejeição de ajuste nulo.
func TestAdjustReceivedAmount_Fail_Zero(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	_, err := svc.AdjustReceivedAmount(context.Background(), uuid.New().String(), 0)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AddReceivedAmount", mock.Anything, mock.Anything, mock.Anything)
}

// TestDeleteTransaction_Fail_NotFound testa o repasse do 404 do repositório.
func TestDeleteTransaction_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	txnID := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, txnID).
		Return(apperror.NewNotFoundError("Venda não existe."))

	err := svc.DeleteTransaction(context.Background(), txnID)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestMonthlyTotal_WindowBounds testa a janela do mês corrente (primeiro ao
// último instante) e o cache do resultado.
func TestMonthlyTotal_WindowBounds(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	// Relógio fixo: 15 de agosto de 2026.
	fixedNow := time.Date(2026, time.August, 15, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixedNow }

	expectedFrom := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	expectedTo := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)

	mockRepo.On("SumTotals", mock.Anything, expectedFrom, expectedTo).
		Return(12345.5, nil).Once()

	total, err := svc.MonthlyTotal(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 12345.5, total)

	// Segunda chamada vem do cache; SumTotals não é consultado de novo.
	cached, err := svc.MonthlyTotal(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 12345.5, cached)
	mockRepo.AssertExpectations(t)
}

// TestExportCSV_Content testa o conteúdo do CSV: cabeçalho fixo e datas no
// formato AAAA-MM-DD.
func TestExportCSV_Content(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	rows := []domain.ExportRow{
		{CustomID: "MOH00001", TotalAmount: 5000, RecievedAmount: 5000, TransactionDate: time.Date(2026, time.August, 3, 14, 0, 0, 0, time.UTC)},
		{CustomID: "MOH00002", TotalAmount: 250.5, RecievedAmount: 200, TransactionDate: time.Date(2026, time.August, 4, 9, 0, 0, 0, time.UTC)},
	}
	mockRepo.On("FindForExport", mock.Anything, mock.Anything).Return(rows, nil)

	csvBytes, err := svc.ExportCSV(context.Background(), domain.ExportFilter{})

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvBytes)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "Bill No,Total Amount,Received Amount,Date", lines[0])
	assert.Equal(t, "MOH00001,5000.00,5000.00,2026-08-03", lines[1])
	assert.Equal(t, "MOH00002,250.50,200.00,2026-08-04", lines[2])
	mockRepo.AssertExpectations(t)
}

// fakeSequenceRepo emula o contrato da sequência de recibos do banco:
// nextval consome o contador, o realinhamento usa GREATEST e nunca
// retrocede, e o maior recibo persistido é o numérico. Os demais métodos
// vêm do mock embutido.
type fakeSequenceRepo struct {
	MockTransactionRepository
	seq    int64
	latest string
}

func (f *fakeSequenceRepo) NextCustomIDNumber(ctx context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeSequenceRepo) LatestCustomID(ctx context.Context) (string, error) {
	return f.latest, nil
}

func (f *fakeSequenceRepo) AdvanceCustomIDSequence(ctx context.Context, n int64) error {
	if n > f.seq {
		f.seq = n
	}
	return nil
}

func (f *fakeSequenceRepo) Create(ctx context.Context, txn domain.Transaction, deltas []domain.StockDelta) (domain.Transaction, error) {
	return txn, nil
}

// TestSyncCustomIDSequence_NeverReissuesAfterDelete testa o cenário de
// exclusão da venda mais recente seguida de restart: sequência em 5, maior
// recibo sobrevivente MOH00004. O realinhamento não pode retroceder a
// sequência — a próxima venda recebe MOH00006, nunca MOH00005 de novo.
func TestSyncCustomIDSequence_NeverReissuesAfterDelete(t *testing.T) {
	repo := &fakeSequenceRepo{seq: 5, latest: "MOH00004"}
	svc := NewService(repo, newFakeCache(), logger.NewLogger("debug"))

	err := svc.SyncCustomIDSequence(context.Background())
	assert.NoError(t, err)

	input := domain.TransactionInput{
		Products:      []domain.TransactionLineInput{{Product: uuid.New().String(), QuantitySold: 1, Price: 10}},
		PaymentMethod: domain.PaymentCash,
	}
	created, err := svc.CreateTransaction(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "MOH00006", created.CustomID)
}

// TestSyncCustomIDSequence_PastFiveDigits testa o realinhamento acima de
// MOH99999, onde o recibo alarga e a ordenação lexicográfica deixaria de
// apontar o maior número.
func TestSyncCustomIDSequence_PastFiveDigits(t *testing.T) {
	repo := &fakeSequenceRepo{latest: "MOH100000"}
	svc := NewService(repo, newFakeCache(), logger.NewLogger("debug"))

	err := svc.SyncCustomIDSequence(context.Background())
	assert.NoError(t, err)

	input := domain.TransactionInput{
		Products:      []domain.TransactionLineInput{{Product: uuid.New().String(), QuantitySold: 1, Price: 10}},
		PaymentMethod: domain.PaymentCash,
	}
	created, err := svc.CreateTransaction(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, "MOH100001", created.CustomID)
}

// TestSyncCustomIDSequence_Success testa o realinhamento da sequência com o
// maior recibo persistido.
func TestSyncCustomIDSequence_Success(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("LatestCustomID", mock.Anything).Return("MOH00042", nil)
	mockRepo.On("AdvanceCustomIDSequence", mock.Anything, int64(42)).Return(nil)

	err := svc.SyncCustomIDSequence(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestSyncCustomIDSequence_EmptyDatabase testa que base vazia não mexe na sequência.
func TestSyncCustomIDSequence_EmptyDatabase(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("LatestCustomID", mock.Anything).Return("", nil)

	err := svc.SyncCustomIDSequence(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "AdvanceCustomIDSequence", mock.Anything, mock.Anything)
}

// TestSyncCustomIDSequence_Fail_Corrupted testa a falha alta quando o recibo
// persistido não parseia — nunca chutar um número.
func TestSyncCustomIDSequence_Fail_Corrupted(t *testing.T) {
	mockRepo := new(MockTransactionRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("LatestCustomID", mock.Anything).Return("FATURA-77", nil)

	err := svc.SyncCustomIDSequence(context.Background())

	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
	mockRepo.AssertNotCalled(t, "AdvanceCustomIDSequence", mock.Anything, mock.Anything)
}
