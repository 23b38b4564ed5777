package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
	"github.com/yourusername/examportal-api/pkg/auth"
)

// AuthService предоставляет методы для аутентификации и регистрации
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register регистрирует нового пользователя.
// Роль клиентом не задается: новые аккаунты всегда получают роль "user",
// администраторы назначаются вне API.
func (s *AuthService) Register(name, email, password, studentClass, stream string) (*entity.User, string, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	user := &entity.User{
		Name:                 name,
		Email:                email,
		Password:             password, // хешируется в BeforeSave
		Role:                 entity.RoleUser,
		StudentClass:         studentClass,
		Stream:               stream,
		NotificationsEnabled: true,
	}

	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка создания пользователя %s: %v", email, err)
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %s (id=%d)", user.Email, user.ID)
	return user, token, nil
}

// Login проверяет учетные данные и выдает JWT.
// Неизвестный email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetMe возвращает профиль текущего пользователя по ID из токена
func (s *AuthService) GetMe(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}
