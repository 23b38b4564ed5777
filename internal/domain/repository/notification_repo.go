package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// NotificationRepository определяет методы для работы с уведомлениями
type NotificationRepository interface {
	// CreateBatch создает уведомления пачкой (рассылка всем подписанным)
	CreateBatch(notifications []entity.Notification) error
	// ListByUser возвращает последние уведомления пользователя
	ListByUser(userID uint, limit int) ([]entity.Notification, error)
	MarkAllRead(userID uint) error
	// DeleteOwned удаляет уведомление, только если оно принадлежит пользователю
	DeleteOwned(notificationID, userID uint) error
	DeleteAllByUser(userID uint) error
}
