package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
	"github.com/yourusername/examportal-api/pkg/auth"
)

// MockUserRepo реализует repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepo) ListStudents() ([]entity.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepo) GetRecentStudents(limit int) ([]entity.User, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepo) CountStudents() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepo) GetNotifiableStudents() ([]entity.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret-key", 24)
	require.NoError(t, err)
	return jwtService
}

// hashPassword хеширует пароль через BeforeSave для тестовых пользователей
func hashPassword(t *testing.T, user *entity.User) {
	t.Helper()
	require.NoError(t, user.BeforeSave(nil))
}

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil).
		Run(func(args mock.Arguments) {
			args.Get(0).(*entity.User).ID = 7
		})

	service := NewAuthService(mockUserRepo, newTestJWTService(t))

	// Act
	user, token, err := service.Register("Новый студент", "new@example.com", "secret123", "11", "PCM")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, token, "Регистрация должна сразу выдавать токен")
	assert.Equal(t, entity.RoleUser, user.Role, "Новый аккаунт всегда получает роль user")
	assert.True(t, user.NotificationsEnabled)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "taken@example.com").
		Return(&entity.User{ID: 1, Email: "taken@example.com"}, nil)

	service := NewAuthService(mockUserRepo, newTestJWTService(t))

	_, _, err := service.Register("Дубль", "taken@example.com", "secret123", "12", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Повторная регистрация email должна быть отклонена")
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	user := &entity.User{ID: 5, Email: "student@example.com", Password: "secret123", Role: entity.RoleUser}
	hashPassword(t, user)

	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "student@example.com").Return(user, nil)

	jwtService := newTestJWTService(t)
	service := NewAuthService(mockUserRepo, jwtService)

	// Act
	gotUser, token, err := service.Login("student@example.com", "secret123")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(5), gotUser.ID)

	claims, err := jwtService.ParseToken(token)
	require.NoError(t, err, "Выданный токен должен проходить проверку")
	assert.Equal(t, uint(5), claims.UserID)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := &entity.User{ID: 5, Email: "student@example.com", Password: "secret123"}
	hashPassword(t, user)

	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "student@example.com").Return(user, nil)

	service := NewAuthService(mockUserRepo, newTestJWTService(t))

	_, _, err := service.Login("student@example.com", "wrong")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	service := NewAuthService(mockUserRepo, newTestJWTService(t))

	_, _, err := service.Login("ghost@example.com", "whatever")

	require.Error(t, err)
	// Неизвестный email неотличим от неверного пароля
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
