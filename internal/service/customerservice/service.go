package customerservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/logger"
)

// CustomerRepository define o contrato esperado da camada de Persistência.
type CustomerRepository interface {
	Save(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	FindByID(ctx context.Context, id string) (domain.Customer, error)
	FindAll(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio do cadastro de clientes.
type Service struct {
	repo   CustomerRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Clientes.
func NewService(repo CustomerRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCustomer valida e cadastra um novo cliente.
func (s *Service) CreateCustomer(ctx context.Context, input domain.CustomerInput) (domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Customer{}, apperror.NewValidationError("O nome do cliente é obrigatório.")
	}

	customer := domain.Customer{
		ID:            uuid.New().String(),
		Name:          name,
		PhoneNumber:   strings.TrimSpace(input.PhoneNumber),
		VehicleNumber: strings.TrimSpace(input.VehicleNumber),
		Address:       strings.TrimSpace(input.Address),
		Active:        true,
		CreatedAt:     time.Now(),
	}
	if input.Active != nil {
		customer.Active = *input.Active
	}

	created, err := s.repo.Save(ctx, customer)
	if err != nil {
		s.logger.Error("Falha ao cadastrar cliente.", err)
		return domain.Customer{}, err
	}

	s.logger.Info("Cliente cadastrado.", map[string]interface{}{"customer_id": created.ID, "name": created.Name})
	return created, nil
}

// GetCustomerByID retorna um cliente pelo ID.
func (s *Service) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	if id == "" {
		return domain.Customer{}, apperror.NewValidationError("O ID do cliente é obrigatório.")
	}
	return s.repo.FindByID(ctx, id)
}

// ListCustomers retorna os clientes que atendem ao filtro (todos, se vazio).
func (s *Service) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.Customer, error) {
	return s.repo.FindAll(ctx, filter)
}

// UpdateCustomer altera os dados cadastrais de um cliente existente.
func (s *Service) UpdateCustomer(ctx context.Context, id string, input domain.CustomerInput) (domain.Customer, error) {
	if id == "" {
		return domain.Customer{}, apperror.NewValidationError("O ID do cliente é obrigatório.")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		current.Name = name
	}
	if phone := strings.TrimSpace(input.PhoneNumber); phone != "" {
		current.PhoneNumber = phone
	}
	if vehicle := strings.TrimSpace(input.VehicleNumber); vehicle != "" {
		current.VehicleNumber = vehicle
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		current.Address = address
	}
	if input.Active != nil {
		current.Active = *input.Active
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Error("Falha ao atualizar cliente.", err)
		return domain.Customer{}, err
	}

	return updated, nil
}

// DeleteCustomer remove um cliente do cadastro.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID do cliente é obrigatório.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover cliente.", err)
		return err
	}

	s.logger.Info("Cliente removido.", map[string]interface{}{"customer_id": id})
	return nil
}
