package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// NotificationRepo реализует repository.NotificationRepository
type NotificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo создает новый репозиторий уведомлений
func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateBatch создает уведомления пачкой
func (r *NotificationRepo) CreateBatch(notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	// Вставляем частями, чтобы не упереться в лимит параметров запроса
	return r.db.CreateInBatches(&notifications, 500).Error
}

// ListByUser возвращает последние уведомления пользователя
func (r *NotificationRepo) ListByUser(userID uint, limit int) ([]entity.Notification, error) {
	var notifications []entity.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkAllRead помечает все непрочитанные уведомления пользователя прочитанными
func (r *NotificationRepo) MarkAllRead(userID uint) error {
	return r.db.Model(&entity.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Update("is_read", true).Error
}

// DeleteOwned удаляет уведомление, только если оно принадлежит пользователю
func (r *NotificationRepo) DeleteOwned(notificationID, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&entity.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAllByUser удаляет все уведомления пользователя
func (r *NotificationRepo) DeleteAllByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entity.Notification{}).Error
}
