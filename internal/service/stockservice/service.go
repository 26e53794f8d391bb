package stockservice

import (
	"context"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// StockRepository define o contrato que o Serviço de Estoque espera da
// camada de Persistência.
type StockRepository interface {
	IncreaseStock(ctx context.Context, productID string, quantity int) (domain.Product, error)
	TransferStock(ctx context.Context, productID string, quantity int, compatMode bool) (domain.Product, error)
}

// Service implementa as duas mutações administrativas do ledger de estoque:
// reposição do armazém e transferência armazém -> loja. A baixa por venda
// não passa por aqui (ver transactionservice).
type Service struct {
	repo       StockRepository
	logger     logger.Logger
	compatMode bool
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
// compatMode liga a checagem permissiva de transferência do sistema legado.
func NewService(repo StockRepository, logger logger.Logger, compatMode bool) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		compatMode: compatMode,
	}
}

// IncreaseStock repõe unidades no estoque do armazém (stock_level).
func (s *Service) IncreaseStock(ctx context.Context, productID string, req domain.StockRequest) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	if req.Quantity <= 0 {
		return domain.Product{}, apperror.NewValidationError("A quantidade da reposição deve ser maior que zero.")
	}

	product, err := s.repo.IncreaseStock(ctx, productID, req.Quantity)
	if err != nil {
		s.logger.Error("Falha ao repor estoque.", err)
		return domain.Product{}, err
	}

	return product, nil
}

// TransferStock move unidades do armazém para o piso da loja. No modo padrão
// a quantidade é limitada ao saldo do armazém; exceder vira erro de estoque
// insuficiente, nunca um débito parcial.
func (s *Service) TransferStock(ctx context.Context, productID string, req domain.StockRequest) (domain.Product, error) {
	if productID == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	if req.Quantity <= 0 {
		return domain.Product{}, apperror.NewValidationError("A quantidade da transferência deve ser maior que zero.")
	}

	product, err := s.repo.TransferStock(ctx, productID, req.Quantity, s.compatMode)
	if err != nil {
		s.logger.Error("Falha ao transferir estoque.", err)
		return domain.Product{}, err
	}

	return product, nil
}
