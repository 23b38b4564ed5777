package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// LeaderboardTotalRepository определяет методы для работы с накопительными итогами
type LeaderboardTotalRepository interface {
	// IncrementInTx атомарно увеличивает итог пользователя в переданной
	// транзакции: totalScore += score, examsAttempted += 1. Первая сдача
	// создает строку (upsert).
	IncrementInTx(tx *gorm.DB, userID uint, score float64) error
	GetByUser(userID uint) (*entity.LeaderboardTotal, error)
}
