package productservice

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/barcode"
	"gotire/internal/pkg/logger"
)

// ProductRepository define o contrato que o Serviço de Catálogo espera da
// camada de Persistência.
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
	FindLowStock(ctx context.Context, pool domain.StockPool, threshold int) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio do catálogo de pneus.
type Service struct {
	repo              ProductRepository
	logger            logger.Logger
	lowStockThreshold int
}

// NewService cria e retorna uma nova instância do Serviço de Catálogo.
func NewService(repo ProductRepository, logger logger.Logger, lowStockThreshold int) *Service {
	return &Service{
		repo:              repo,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

// generateBarcode produz um código numérico de 13 dígitos para produtos
// cadastrados sem barcode próprio (mesma faixa de um EAN-13).
func generateBarcode() string {
	const min = 1_000_000_000_000
	return strconv.FormatInt(min+rand.Int63n(9_000_000_000_000), 10)
}

// CreateProduct valida e cadastra um novo produto com os estoques zerados.
func (s *Service) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	if strings.TrimSpace(input.Size) == "" {
		return domain.Product{}, apperror.NewValidationError("A medida (size) do produto é obrigatória.")
	}
	if input.Brand == "" {
		return domain.Product{}, apperror.NewValidationError("A marca do produto é obrigatória.")
	}
	if input.VehicleType == "" {
		return domain.Product{}, apperror.NewValidationError("O tipo de veículo do produto é obrigatório.")
	}
	if input.Price < 0 {
		return domain.Product{}, apperror.NewValidationError("O preço do produto não pode ser negativo.")
	}

	productBarcode := strings.TrimSpace(input.Barcode)
	if productBarcode == "" {
		productBarcode = generateBarcode()
	}

	product := domain.Product{
		ID:            uuid.New().String(),
		Size:          strings.TrimSpace(input.Size),
		BrandID:       input.Brand,
		VehicleTypeID: input.VehicleType,
		Pattern:       strings.TrimSpace(input.Pattern),
		PR:            input.PR,
		Price:         input.Price,
		Barcode:       productBarcode,
		Remarks:       input.Remarks,
		Status:        true,
		StockLevel:    0,
		SubStockLevel: 0,
		CreatedAt:     time.Now(),
	}
	if input.Status != nil {
		product.Status = *input.Status
	}

	created, err := s.repo.Save(ctx, product)
	if err != nil {
		s.logger.Error("Falha ao cadastrar produto.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto cadastrado.", map[string]interface{}{
		"product_id": created.ID,
		"size":       created.Size,
		"barcode":    created.Barcode,
	})
	return created, nil
}

// GetProductByID retorna um produto pelo ID.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	return s.repo.FindByID(ctx, id)
}

// GetProductByBarcode retorna um produto pelo código de barras (leitor do balcão).
func (s *Service) GetProductByBarcode(ctx context.Context, code string) (domain.Product, error) {
	if code == "" {
		return domain.Product{}, apperror.NewValidationError("O barcode é obrigatório.")
	}
	return s.repo.FindByBarcode(ctx, code)
}

// ListProducts retorna uma página do catálogo segundo o filtro.
func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) (domain.ProductPage, error) {
	products, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return domain.ProductPage{}, err
	}
	return domain.ProductPage{TotalSize: total, Products: products}, nil
}

// SearchProducts busca produtos por termo livre (medida, desenho ou barcode).
func (s *Service) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperror.NewValidationError("O termo de busca é obrigatório.")
	}
	return s.repo.Search(ctx, term)
}

// ListLowStock lista os produtos abaixo do limite de alerta no pool informado.
func (s *Service) ListLowStock(ctx context.Context, pool domain.StockPool) ([]domain.Product, error) {
	if pool != domain.WarehousePool && pool != domain.ShopPool {
		return nil, apperror.NewValidationError("Pool de estoque inválido.")
	}
	return s.repo.FindLowStock(ctx, pool, s.lowStockThreshold)
}

// UpdateProduct altera os dados cadastrais de um produto. Os contadores de
// estoque não são alterados por aqui.
func (s *Service) UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	if input.Price < 0 {
		return domain.Product{}, apperror.NewValidationError("O preço do produto não pode ser negativo.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if size := strings.TrimSpace(input.Size); size != "" {
		current.Size = size
	}
	if input.Brand != "" {
		current.BrandID = input.Brand
	}
	if input.VehicleType != "" {
		current.VehicleTypeID = input.VehicleType
	}
	if pattern := strings.TrimSpace(input.Pattern); pattern != "" {
		current.Pattern = pattern
	}
	if input.PR != 0 {
		current.PR = input.PR
	}
	if input.Price != 0 {
		current.Price = input.Price
	}
	if code := strings.TrimSpace(input.Barcode); code != "" {
		current.Barcode = code
	}
	if input.Remarks != "" {
		current.Remarks = input.Remarks
	}
	if input.Status != nil {
		current.Status = *input.Status
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Error("Falha ao atualizar produto.", err)
		return domain.Product{}, err
	}

	return updated, nil
}

// DeleteProduct remove um produto do catálogo.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID do produto é obrigatório.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover produto.", err)
		return err
	}

	s.logger.Info("Produto removido.", map[string]interface{}{"product_id": id})
	return nil
}

// RenderBarcode gera o PNG Code 128 da etiqueta de um produto.
func (s *Service) RenderBarcode(ctx context.Context, id string) ([]byte, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := barcode.RenderPNG(product.Barcode)
	if err != nil {
		s.logger.Error("Falha ao gerar etiqueta de barcode.", err)
		return nil, apperror.NewInternalError("Falha ao gerar etiqueta de barcode.", err)
	}
	return png, nil
}

// ExportCSV gera o CSV do catálogo completo (inventário dos dois pools).
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	products, _, err := s.repo.FindAll(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Size", "Brand", "Pattern", "PR", "Price", "Barcode", "Stock Level", "Sub Stock Level"}); err != nil {
		return nil, apperror.NewInternalError("Falha ao escrever cabeçalho do CSV.", err)
	}

	for _, p := range products {
		brandName := ""
		if p.Brand != nil {
			brandName = p.Brand.Name
		}
		record := []string{
			p.Size,
			brandName,
			p.Pattern,
			strconv.Itoa(p.PR),
			fmt.Sprintf("%.2f", p.Price),
			p.Barcode,
			strconv.Itoa(p.StockLevel),
			strconv.Itoa(p.SubStockLevel),
		}
		if err := w.Write(record); err != nil {
			return nil, apperror.NewInternalError("Falha ao escrever linha do CSV.", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperror.NewInternalError("Falha ao finalizar CSV do catálogo.", err)
	}

	return buf.Bytes(), nil
}
