package stockservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
	"gotire/internal/service/stockservice"
)

// MockStockRepository é uma implementação mock da interface StockRepository.
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) IncreaseStock(ctx context.Context, productID string, quantity int) (domain.Product, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockStockRepository) TransferStock(ctx context.Context, productID string, quantity int, compatMode bool) (domain.Product, error) {
	args := m.Called(ctx, productID, quantity, compatMode)
	return args.Get(0).(domain.Product), args.Error(1)
}

// TestIncreaseStock_Success testa a reposição do estoque do armazém.
func TestIncreaseStock_Success(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := stockservice.NewService(mockRepo, logger.NewLogger("debug"), false)

	productID := uuid.New().String()
	expected := domain.Product{ID: productID, StockLevel: 15, SubStockLevel: 0}

	mockRepo.On("IncreaseStock", mock.Anything, productID, 5).Return(expected, nil)

	result, err := svc.IncreaseStock(context.Background(), productID, domain.StockRequest{Quantity: 5})

	assert.NoError(t, err)
	assert.Equal(t, 15, result.StockLevel)
	mockRepo.AssertExpectations(t)
}

// TestIncreaseStock_Fail_NonPositiveQuantity testa a rejeição de quantidade inválida.
func TestIncreaseStock_Fail_NonPositiveQuantity(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := stockservice.NewService(mockRepo, logger.NewLogger("debug"), false)

	_, err := svc.IncreaseStock(context.Background(), uuid.New().String(), domain.StockRequest{Quantity: 0})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
}

// TestTransferStock_Success testa a transferência armazém -> loja:
// stockLevel 5 com transferência de 3 vira stockLevel 2, subStockLevel +3.
func TestTransferStock_Success(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := stockservice.NewService(mockRepo, logger.NewLogger("debug"), false)

	productID := uuid.New().String()
	expected := domain.Product{ID: productID, StockLevel: 2, SubStockLevel: 3}

	mockRepo.On("TransferStock", mock.Anything, productID, 3, false).Return(expected, nil)

	result, err := svc.TransferStock(context.Background(), productID, domain.StockRequest{Quantity: 3})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.StockLevel)
	assert.Equal(t, 3, result.SubStockLevel)
	mockRepo.AssertExpectations(t)
}

// TestTransferStock_Fail_InsufficientStock testa a recusa quando o armazém
// não cobre a quantidade pedida.
func TestTransferStock_Fail_InsufficientStock(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := stockservice.NewService(mockRepo, logger.NewLogger("debug"), false)

	productID := uuid.New().String()

	mockRepo.On("TransferStock", mock.Anything, productID, 3, false).
		Return(domain.Product{}, apperror.NewInsufficientStockError("armazém possui 0 unidade(s), transferência de 3 recusada."))

	_, err := svc.TransferStock(context.Background(), productID, domain.StockRequest{Quantity: 3})

	assert.Error(t, err)
	assert.IsType(t, &apperror.InsufficientStockError{}, err)
	mockRepo.AssertExpectations(t)
}

// TestTransferStock_Fail_NonPositiveQuantity testa a rejeição de quantidade inválida.
func TestTransferStock_Fail_NonPositiveQuantity(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := stockservice.NewService(mockRepo, logger.NewLogger("debug"), false)

	_, err := svc.TransferStock(context.Background(), uuid.New().String(), domain.StockRequest{Quantity: -1})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "TransferStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestTransferStock_CompatMode testa que o modo de compatibilidade legado é
// repassado ao repositório.
func TestTransferStock_CompatMode(t *testing.T) {
	mockRepo := new(MockStockRepository)
	svc := stockservice.NewService(mockRepo, logger.NewLogger("debug"), true)

	productID := uuid.New().String()
	// No modo legado o armazém pode ficar negativo.
	expected := domain.Product{ID: productID, StockLevel: -2, SubStockLevel: 3}

	mockRepo.On("TransferStock", mock.Anything, productID, 3, true).Return(expected, nil)

	result, err := svc.TransferStock(context.Background(), productID, domain.StockRequest{Quantity: 3})

	assert.NoError(t, err)
	assert.Equal(t, -2, result.StockLevel)
	mockRepo.AssertExpectations(t)
}
