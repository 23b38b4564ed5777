package postgres

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// UserRepo реализует repository.UserRepository
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo создает новый репозиторий пользователей
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create создает нового пользователя
func (r *UserRepo) Create(user *entity.User) error {
	return r.db.Create(user).Error
}

// GetByID возвращает пользователя по ID
func (r *UserRepo) GetByID(id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update обновляет информацию о пользователе
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// UpdateProfile обновляет профиль пользователя без изменения пароля
func (r *UserRepo) UpdateProfile(userID uint, updates map[string]interface{}) error {
	// Пароль через этот метод не меняется
	delete(updates, "password")

	updates["updated_at"] = time.Now()

	return r.db.Model(&entity.User{}).Where("id = ?", userID).Updates(updates).Error
}

// UpdatePassword безопасно обновляет пароль пользователя.
// Хеширует пароль непосредственно здесь и пишет сырым SQL, чтобы обойти хук
// BeforeSave и исключить двойное хеширование.
func (r *UserRepo) UpdatePassword(userID uint, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при хешировании пароля: %v", err)
		return err
	}

	result := r.db.Exec(
		"UPDATE users SET password = ?, updated_at = ? WHERE id = ?",
		string(hashedPassword),
		time.Now(),
		userID,
	)
	if result.Error != nil {
		log.Printf("[UserRepo.UpdatePassword] Ошибка при обновлении пароля для ID=%d: %v", userID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет пользователя
func (r *UserRepo) Delete(id uint) error {
	return r.db.Delete(&entity.User{}, id).Error
}

// ListStudents возвращает всех студентов, новые первыми
func (r *UserRepo) ListStudents() ([]entity.User, error) {
	var users []entity.User
	err := r.db.Where("role = ?", entity.RoleUser).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// GetRecentStudents возвращает последних зарегистрированных студентов
func (r *UserRepo) GetRecentStudents(limit int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.Where("role = ?", entity.RoleUser).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountStudents возвращает количество студентов
func (r *UserRepo) CountStudents() (int64, error) {
	var count int64
	err := r.db.Model(&entity.User{}).Where("role = ?", entity.RoleUser).Count(&count).Error
	return count, err
}

// GetNotifiableStudents возвращает студентов с включенными уведомлениями
func (r *UserRepo) GetNotifiableStudents() ([]entity.User, error) {
	var users []entity.User
	err := r.db.Where("role = ? AND notifications_enabled = true", entity.RoleUser).
		Find(&users).Error
	return users, err
}
