package entity

import (
	"time"
)

// LeaderboardTotal представляет денормализованный накопительный итог пользователя.
// Одна строка на пользователя; обновляется инкрементально при каждой успешной
// сдаче экзамена (upsert в той же транзакции, что и вставка Result) и никогда
// не пересчитывается с нуля. Недельные рейтинги считаются отдельно, по истории
// Result на момент запроса.
type LeaderboardTotal struct {
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	TotalScore     float64   `gorm:"not null;default:0" json:"total_score"`
	ExamsAttempted int       `gorm:"not null;default:0" json:"exams_attempted"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (LeaderboardTotal) TableName() string {
	return "leaderboard_totals"
}
