package userservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"gotire/internal/domain"
	apperror "gotire/internal/errors"
	"gotire/internal/pkg/token"
	"gotire/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface domain.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	if args.Error(1) != nil {
		return domain.User{}, args.Error(1)
	}
	return user, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockTokenService é uma implementação mock da interface TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.CustomClaims), args.Error(1)
}

// TestRegister_Success testa o cadastro com role padrão cashier e senha em hash.
func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).Return(domain.User{}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		Email:    "caixa@gotire.local",
		Password: "senha-forte",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleCashier, user.Role)
	assert.NotEqual(t, "senha-forte", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("senha-forte")))
	mockRepo.AssertExpectations(t)
}

// TestRegister_AdminRole testa que o role admin só entra via payload explícito.
func TestRegister_AdminRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.User")).Return(domain.User{}, nil)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		Email:    "dono@gotire.local",
		Password: "senha-forte",
		Role:     "admin",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

// TestRegister_Fail_MissingFields testa a validação de email e senha.
func TestRegister_Fail_MissingFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	_, err := svc.Register(context.Background(), domain.UserRegistration{Email: "caixa@gotire.local"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestLogin_Success testa a autenticação e a emissão do JWT.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockToken)

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	user := domain.User{ID: "user-1", Email: "caixa@gotire.local", PasswordHash: string(hash), Role: domain.RoleCashier}

	mockRepo.On("FindByEmail", mock.Anything, "caixa@gotire.local").Return(user, nil)
	mockToken.On("GenerateToken", "user-1", "cashier").Return("um.jwt.valido", nil)

	tokenString, err := svc.Login(context.Background(), "caixa@gotire.local", "senha-forte")

	assert.NoError(t, err)
	assert.Equal(t, "um.jwt.valido", tokenString)
	mockRepo.AssertExpectations(t)
	mockToken.AssertExpectations(t)
}

// TestLogin_Fail_WrongPassword testa a recusa de senha incorreta.
func TestLogin_Fail_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockToken := new(MockTokenService)
	svc := userservice.NewService(mockRepo, mockToken)

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha-forte"), bcrypt.MinCost)
	user := domain.User{ID: "user-1", PasswordHash: string(hash)}

	mockRepo.On("FindByEmail", mock.Anything, "caixa@gotire.local").Return(user, nil)

	_, err := svc.Login(context.Background(), "caixa@gotire.local", "senha-errada")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	mockToken.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

// TestLogin_Fail_UnknownEmail testa que email inexistente vira 401, não 404.
func TestLogin_Fail_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := userservice.NewService(mockRepo, new(MockTokenService))

	mockRepo.On("FindByEmail", mock.Anything, "fantasma@gotire.local").
		Return(domain.User{}, apperror.NewNotFoundError("Usuário não existe."))

	_, err := svc.Login(context.Background(), "fantasma@gotire.local", "qualquer")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}
