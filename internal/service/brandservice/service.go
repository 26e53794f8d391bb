package brandservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// BrandRepository define o contrato que o Serviço de Marcas espera da camada de Persistência.
type BrandRepository interface {
	Save(ctx context.Context, brand domain.Brand) (domain.Brand, error)
	FindByID(ctx context.Context, id string) (domain.Brand, error)
	FindAll(ctx context.Context) ([]domain.Brand, error)
	Update(ctx context.Context, brand domain.Brand) (domain.Brand, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio do cadastro de marcas.
type Service struct {
	repo   BrandRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Marcas.
func NewService(repo BrandRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateBrand valida e cadastra uma nova marca.
func (s *Service) CreateBrand(ctx context.Context, input domain.BrandInput) (domain.Brand, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Brand{}, apperror.NewValidationError("O nome da marca é obrigatório.")
	}

	brand := domain.Brand{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if input.Active != nil {
		brand.Active = *input.Active
	}

	created, err := s.repo.Save(ctx, brand)
	if err != nil {
		s.logger.Error("Falha ao cadastrar marca.", err)
		return domain.Brand{}, err
	}

	s.logger.Info("Marca cadastrada.", map[string]interface{}{"brand_id": created.ID, "name": created.Name})
	return created, nil
}

// GetBrandByID retorna uma marca pelo ID.
func (s *Service) GetBrandByID(ctx context.Context, id string) (domain.Brand, error) {
	if id == "" {
		return domain.Brand{}, apperror.NewValidationError("O ID da marca é obrigatório.")
	}
	return s.repo.FindByID(ctx, id)
}

// ListBrands retorna todas as marcas cadastradas.
func (s *Service) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.FindAll(ctx)
}

// UpdateBrand altera nome e situação de uma marca existente.
func (s *Service) UpdateBrand(ctx context.Context, id string, input domain.BrandInput) (domain.Brand, error) {
	if id == "" {
		return domain.Brand{}, apperror.NewValidationError("O ID da marca é obrigatório.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Brand{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if input.Active != nil {
		current.Active = *input.Active
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Error("Falha ao atualizar marca.", err)
		return domain.Brand{}, err
	}

	return updated, nil
}

// DeleteBrand remove uma marca do cadastro.
func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID da marca é obrigatório.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover marca.", err)
		return err
	}

	s.logger.Info("Marca removida.", map[string]interface{}{"brand_id": id})
	return nil
}
