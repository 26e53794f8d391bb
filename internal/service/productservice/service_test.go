package productservice_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
	"gotire/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository.
// Save e Update ecoam o produto recebido, como o repositório real.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Error(1) != nil {
		return domain.Product{}, args.Error(1)
	}
	return product, nil
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	args := m.Called(ctx, barcode)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) Search(ctx context.Context, term string) ([]domain.Product, error) {
	args := m.Called(ctx, term)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, pool domain.StockPool, threshold int) ([]domain.Product, error) {
	args := m.Called(ctx, pool, threshold)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Error(1) != nil {
		return domain.Product{}, args.Error(1)
	}
	return product, nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo *MockProductRepository) *productservice.Service {
	return productservice.NewService(repo, logger.NewLogger("debug"), 10)
}

// TestCreateProduct_Success testa o cadastro com barcode informado: estoques
// zerados e status ativo por padrão.
func TestCreateProduct_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Product")).Return(domain.Product{}, nil)

	input := domain.ProductInput{
		Size:        "195/65R15",
		Brand:       uuid.New().String(),
		VehicleType: uuid.New().String(),
		Pattern:     "P7",
		PR:          4,
		Price:       450,
		Barcode:     "8901234567890",
	}

	result, err := svc.CreateProduct(context.Background(), input)

	assert.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "195/65R15", result.Size)
	assert.Equal(t, "8901234567890", result.Barcode)
	assert.True(t, result.Status)
	assert.Equal(t, 0, result.StockLevel)
	assert.Equal(t, 0, result.SubStockLevel)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_GeneratedBarcode testa que cadastro sem barcode recebe um
// código numérico de 13 dígitos gerado pelo servidor.
func TestCreateProduct_GeneratedBarcode(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Product")).Return(domain.Product{}, nil)

	input := domain.ProductInput{
		Size:        "205/55R16",
		Brand:       uuid.New().String(),
		VehicleType: uuid.New().String(),
		Price:       600,
	}

	result, err := svc.CreateProduct(context.Background(), input)

	assert.NoError(t, err)
	assert.Len(t, result.Barcode, 13)
	for _, r := range result.Barcode {
		assert.True(t, r >= '0' && r <= '9', "barcode gerado deve ser numérico: %q", result.Barcode)
	}
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_Fail_MissingFields testa as validações de campos obrigatórios.
func TestCreateProduct_Fail_MissingFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	cases := []domain.ProductInput{
		{Brand: "b", VehicleType: "v", Price: 10},                    // sem size
		{Size: "195/65R15", VehicleType: "v", Price: 10},             // sem marca
		{Size: "195/65R15", Brand: "b", Price: 10},                   // sem tipo de veículo
		{Size: "195/65R15", Brand: "b", VehicleType: "v", Price: -1}, // preço negativo
	}

	for _, input := range cases {
		_, err := svc.CreateProduct(context.Background(), input)
		assert.Error(t, err)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestSearchProducts_Fail_EmptyTerm testa a rejeição de busca sem termo.
func TestSearchProducts_Fail_EmptyTerm(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	_, err := svc.SearchProducts(context.Background(), "   ")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

// TestListLowStock_Success testa a consulta de alerta com o limite configurado.
func TestListLowStock_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	expected := []domain.Product{{ID: uuid.New().String(), StockLevel: 3}}
	mockRepo.On("FindLowStock", mock.Anything, domain.WarehousePool, 10).Return(expected, nil)

	result, err := svc.ListLowStock(context.Background(), domain.WarehousePool)

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
	mockRepo.AssertExpectations(t)
}

// TestListLowStock_Fail_InvalidPool testa a rejeição de pool desconhecido.
func TestListLowStock_Fail_InvalidPool(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	_, err := svc.ListLowStock(context.Background(), domain.StockPool("garagem"))

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindLowStock", mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateProduct_MergesFields testa que apenas os campos enviados são
// alterados e os contadores de estoque ficam intactos.
func TestUpdateProduct_MergesFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	productID := uuid.New().String()
	current := domain.Product{
		ID:            productID,
		Size:          "195/65R15",
		Pattern:       "P7",
		Price:         450,
		Barcode:       "8901234567890",
		Status:        true,
		StockLevel:    8,
		SubStockLevel: 2,
	}

	mockRepo.On("FindByID", mock.Anything, productID).Return(current, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("domain.Product")).Return(domain.Product{}, nil)

	result, err := svc.UpdateProduct(context.Background(), productID, domain.ProductInput{Price: 500})

	assert.NoError(t, err)
	assert.Equal(t, 500.0, result.Price)
	assert.Equal(t, "195/65R15", result.Size)
	assert.Equal(t, 8, result.StockLevel)
	assert.Equal(t, 2, result.SubStockLevel)
	mockRepo.AssertExpectations(t)
}

// TestRenderBarcode_Success testa a geração da etiqueta PNG.
func TestRenderBarcode_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	productID := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, productID).
		Return(domain.Product{ID: productID, Barcode: "8901234567890"}, nil)

	png, err := svc.RenderBarcode(context.Background(), productID)

	assert.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
	mockRepo.AssertExpectations(t)
}

// TestExportCSV_Content testa o CSV do catálogo: cabeçalho fixo e nome da
// marca resolvido quando presente.
func TestExportCSV_Content(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := newTestService(mockRepo)

	products := []domain.Product{
		{
			Size:          "195/65R15",
			Brand:         &domain.Brand{Name: "Pirelli"},
			Pattern:       "P7",
			PR:            4,
			Price:         450,
			Barcode:       "8901234567890",
			StockLevel:    8,
			SubStockLevel: 2,
		},
	}
	mockRepo.On("FindAll", mock.Anything, domain.ProductFilter{}).Return(products, 1, nil)

	csvBytes, err := svc.ExportCSV(context.Background())

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvBytes)), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Size,Brand,Pattern,PR,Price,Barcode,Stock Level,Sub Stock Level", lines[0])
	assert.Equal(t, "195/65R15,Pirelli,P7,4,450.00,8901234567890,8,2", lines[1])
	mockRepo.AssertExpectations(t)
}
