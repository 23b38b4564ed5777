package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// LeaderboardRow представляет агрегат результатов одного пользователя
// внутри временного окна лидерборда
type LeaderboardRow struct {
	UserID       uint    `json:"user_id"`
	Name         string  `json:"name"`
	ProfileImage string  `json:"profile_image"`
	TotalScore   float64 `json:"total_score"`
	TotalCorrect int     `json:"total_correct"`
	ExamsTaken   int     `json:"exams_taken"`
}

// AnalyticsRow представляет строку результата для админской аналитики
type AnalyticsRow struct {
	UserID     uint
	Score      float64
	TotalMarks int
	Subject    string
}

// ExamResultRow представляет результат экзамена вместе с данными студента
// (для админских списков и выгрузки в XLSX)
type ExamResultRow struct {
	UserID         uint
	Name           string
	Email          string
	Score          float64
	TotalMarks     int
	CorrectAnswers int
	WrongAnswers   int
	SkippedAnswers int
	Accuracy       float64
	SubmittedAt    time.Time
}

// ResultRepository определяет методы для работы с результатами
type ResultRepository interface {
	// CreateInTx вставляет результат в переданной транзакции.
	// Нарушение уникальности (user_id, exam_id) транслируется в apperrors.ErrConflict.
	CreateInTx(tx *gorm.DB, result *entity.Result) error
	GetByUserAndExam(userID, examID uint) (*entity.Result, error)
	ExistsForUserAndExam(userID, examID uint) (bool, error)
	// GetByUser возвращает все результаты пользователя, свежие первыми
	GetByUser(userID uint) ([]entity.Result, error)
	// DeleteOwned удаляет результат, только если он принадлежит пользователю
	DeleteOwned(resultID, userID uint) error
	DeleteByUserID(userID uint) error
	DeleteByExamID(examID uint) error

	// CountBetter возвращает количество результатов экзамена, строго
	// опережающих данный в порядке (score DESC, correct_answers DESC)
	CountBetter(examID uint, score float64, correctAnswers int) (int64, error)
	CountByExam(examID uint) (int64, error)
	Count() (int64, error)
	// CountPassFail возвращает количество сданных и несданных результатов
	// (порог — 40% от total_marks)
	CountPassFail() (passed int64, failed int64, err error)

	// AggregateRange группирует результаты окна [from, to) по пользователям.
	// Нулевой from/to означает отсутствие границы. subject — точное совпадение
	// без учета регистра, пустая строка или "all" — без фильтра.
	// Кандидаты ограничиваются limit до ранжирования (контроль стоимости).
	AggregateRange(from, to *time.Time, subject string, limit int) ([]LeaderboardRow, error)
	// ListForAnalytics возвращает все результаты с предметом экзамена
	ListForAnalytics() ([]AnalyticsRow, error)
	// ListByExamWithUsers возвращает результаты экзамена с данными студентов,
	// лучшие первыми (score DESC, correct_answers DESC)
	ListByExamWithUsers(examID uint) ([]ExamResultRow, error)
}
