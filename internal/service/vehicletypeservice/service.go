package vehicletypeservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// VehicleTypeRepository define o contrato esperado da camada de Persistência.
type VehicleTypeRepository interface {
	Save(ctx context.Context, vt domain.VehicleType) (domain.VehicleType, error)
	FindByID(ctx context.Context, id string) (domain.VehicleType, error)
	FindAll(ctx context.Context) ([]domain.VehicleType, error)
	Update(ctx context.Context, vt domain.VehicleType) (domain.VehicleType, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio do cadastro de tipos de veículo.
type Service struct {
	repo   VehicleTypeRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço.
func NewService(repo VehicleTypeRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateVehicleType valida e cadastra um novo tipo de veículo.
func (s *Service) CreateVehicleType(ctx context.Context, input domain.VehicleTypeInput) (domain.VehicleType, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.VehicleType{}, apperror.NewValidationError("O nome do tipo de veículo é obrigatório.")
	}

	vt := domain.VehicleType{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if input.Active != nil {
		vt.Active = *input.Active
	}

	created, err := s.repo.Save(ctx, vt)
	if err != nil {
		s.logger.Error("Falha ao cadastrar tipo de veículo.", err)
		return domain.VehicleType{}, err
	}

	s.logger.Info("Tipo de veículo cadastrado.", map[string]interface{}{"vehicle_type_id": created.ID, "name": created.Name})
	return created, nil
}

// GetVehicleTypeByID retorna um tipo de veículo pelo ID.
func (s *Service) GetVehicleTypeByID(ctx context.Context, id string) (domain.VehicleType, error) {
	if id == "" {
		return domain.VehicleType{}, apperror.NewValidationError("O ID do tipo de veículo é obrigatório.")
	}
	return s.repo.FindByID(ctx, id)
}

// ListVehicleTypes retorna todos os tipos de veículo cadastrados.
func (s *Service) ListVehicleTypes(ctx context.Context) ([]domain.VehicleType, error) {
	return s.repo.FindAll(ctx)
}

// UpdateVehicleType altera nome e situação de um tipo existente.
func (s *Service) UpdateVehicleType(ctx context.Context, id string, input domain.VehicleTypeInput) (domain.VehicleType, error) {
	if id == "" {
		return domain.VehicleType{}, apperror.NewValidationError("O ID do tipo de veículo é obrigatório.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.VehicleType{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if input.Active != nil {
		current.Active = *input.Active
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Error("Falha ao atualizar tipo de veículo.", err)
		return domain.VehicleType{}, err
	}

	return updated, nil
}

// DeleteVehicleType remove um tipo de veículo do cadastro.
func (s *Service) DeleteVehicleType(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID do tipo de veículo é obrigatório.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover tipo de veículo.", err)
		return err
	}

	s.logger.Info("Tipo de veículo removido.", map[string]interface{}{"vehicle_type_id": id})
	return nil
}
