package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// LeaderboardTotalRepo реализует repository.LeaderboardTotalRepository
type LeaderboardTotalRepo struct {
	db *gorm.DB
}

// NewLeaderboardTotalRepo создает новый репозиторий накопительных итогов
func NewLeaderboardTotalRepo(db *gorm.DB) *LeaderboardTotalRepo {
	return &LeaderboardTotalRepo{db: db}
}

// IncrementInTx атомарно увеличивает итог пользователя в переданной транзакции.
// Upsert: первая сдача создает строку, последующие только инкрементируют —
// итог монотонный и никогда не пересчитывается с нуля.
func (r *LeaderboardTotalRepo) IncrementInTx(tx *gorm.DB, userID uint, score float64) error {
	now := time.Now()
	total := entity.LeaderboardTotal{
		UserID:         userID,
		TotalScore:     score,
		ExamsAttempted: 1,
		UpdatedAt:      now,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_score":     gorm.Expr("leaderboard_totals.total_score + ?", score),
			"exams_attempted": gorm.Expr("leaderboard_totals.exams_attempted + 1"),
			"updated_at":      now,
		}),
	}).Create(&total).Error
}

// GetByUser возвращает накопительный итог пользователя
func (r *LeaderboardTotalRepo) GetByUser(userID uint) (*entity.LeaderboardTotal, error) {
	var total entity.LeaderboardTotal
	err := r.db.Where("user_id = ?", userID).First(&total).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &total, nil
}
