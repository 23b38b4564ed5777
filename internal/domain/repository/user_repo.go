package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(userID uint, updates map[string]interface{}) error
	UpdatePassword(userID uint, newPassword string) error
	Delete(id uint) error

	// ListStudents возвращает всех студентов (role = "user"), новые первыми
	ListStudents() ([]entity.User, error)
	// GetRecentStudents возвращает последних зарегистрированных студентов
	GetRecentStudents(limit int) ([]entity.User, error)
	CountStudents() (int64, error)
	// GetNotifiableStudents возвращает студентов с включенными уведомлениями
	GetNotifiableStudents() ([]entity.User, error)
}
