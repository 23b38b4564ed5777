package postgres

import (
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// CreateInTx вставляет результат в переданной транзакции.
// Гонка двух одновременных submit для одной пары (user, exam) разрешается
// уникальным индексом idx_user_exam: проигравшая вставка получает 23505,
// которую мы транслируем в ErrConflict ("already submitted").
func (r *ResultRepo) CreateInTx(tx *gorm.DB, result *entity.Result) error {
	if err := tx.Create(result).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByUserAndExam возвращает результат пользователя для конкретного экзамена
func (r *ResultRepo) GetByUserAndExam(userID, examID uint) (*entity.Result, error) {
	var result entity.Result
	err := r.db.Where("user_id = ? AND exam_id = ?", userID, examID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// ExistsForUserAndExam проверяет, есть ли у пользователя результат по экзамену
func (r *ResultRepo) ExistsForUserAndExam(userID, examID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Result{}).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		Count(&count).Error
	return count > 0, err
}

// GetByUser возвращает все результаты пользователя, свежие первыми
func (r *ResultRepo) GetByUser(userID uint) ([]entity.Result, error) {
	var results []entity.Result
	err := r.db.Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&results).Error
	return results, err
}

// DeleteOwned удаляет результат, только если он принадлежит пользователю
func (r *ResultRepo) DeleteOwned(resultID, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", resultID, userID).
		Delete(&entity.Result{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID удаляет все результаты пользователя (каскад при удалении аккаунта)
func (r *ResultRepo) DeleteByUserID(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&entity.Result{}).Error
}

// DeleteByExamID удаляет все результаты экзамена
func (r *ResultRepo) DeleteByExamID(examID uint) error {
	return r.db.Where("exam_id = ?", examID).Delete(&entity.Result{}).Error
}

// CountBetter возвращает количество результатов экзамена, строго опережающих
// данный в порядке (score DESC, correct_answers DESC). Ранг = 1 + это число;
// полностью равные результаты получают одинаковый ранг (competition ranking).
func (r *ResultRepo) CountBetter(examID uint, score float64, correctAnswers int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Result{}).
		Where("exam_id = ? AND (score > ? OR (score = ? AND correct_answers > ?))",
			examID, score, score, correctAnswers).
		Count(&count).Error
	return count, err
}

// CountByExam возвращает количество участников экзамена
func (r *ResultRepo) CountByExam(examID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Result{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

// Count возвращает общее количество результатов
func (r *ResultRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Result{}).Count(&count).Error
	return count, err
}

// CountPassFail возвращает количество сданных и несданных результатов.
// Порог сдачи — 40% от total_marks.
func (r *ResultRepo) CountPassFail() (int64, int64, error) {
	var passed, failed int64
	if err := r.db.Model(&entity.Result{}).
		Where("score >= total_marks * 0.4").
		Count(&passed).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&entity.Result{}).
		Where("score < total_marks * 0.4").
		Count(&failed).Error; err != nil {
		return 0, 0, err
	}
	return passed, failed, nil
}

// AggregateRange группирует результаты окна [from, to) по пользователям
// и возвращает кандидатов лидерборда, отсортированных по суммарным очкам,
// затем по суммарным правильным ответам. Набор ограничивается limit ДО
// ранжирования — дальше лидерборд работает только с этими строками.
func (r *ResultRepo) AggregateRange(from, to *time.Time, subject string, limit int) ([]repository.LeaderboardRow, error) {
	query := r.db.Table("results").
		Select(`results.user_id AS user_id,
			users.name AS name,
			users.profile_image AS profile_image,
			SUM(results.score) AS total_score,
			SUM(results.correct_answers) AS total_correct,
			COUNT(*) AS exams_taken`).
		Joins("JOIN users ON users.id = results.user_id")

	if subject != "" && subject != "all" {
		query = query.
			Joins("JOIN exams ON exams.id = results.exam_id").
			Where("LOWER(exams.subject) = LOWER(?)", subject)
	}
	if from != nil {
		query = query.Where("results.submitted_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("results.submitted_at < ?", *to)
	}

	var rows []repository.LeaderboardRow
	err := query.
		Group("results.user_id, users.name, users.profile_image").
		Order("total_score DESC, total_correct DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		log.Printf("[ResultRepo] Ошибка агрегации окна лидерборда: %v", err)
		return nil, err
	}
	return rows, nil
}

// ListForAnalytics возвращает все результаты с предметом экзамена
func (r *ResultRepo) ListForAnalytics() ([]repository.AnalyticsRow, error) {
	var rows []repository.AnalyticsRow
	err := r.db.Table("results").
		Select("results.user_id AS user_id, results.score AS score, results.total_marks AS total_marks, exams.subject AS subject").
		Joins("LEFT JOIN exams ON exams.id = results.exam_id").
		Scan(&rows).Error
	return rows, err
}

// ListByExamWithUsers возвращает результаты экзамена с данными студентов,
// лучшие первыми
func (r *ResultRepo) ListByExamWithUsers(examID uint) ([]repository.ExamResultRow, error) {
	var rows []repository.ExamResultRow
	err := r.db.Table("results").
		Select(`results.user_id AS user_id,
			users.name AS name,
			users.email AS email,
			results.score AS score,
			results.total_marks AS total_marks,
			results.correct_answers AS correct_answers,
			results.wrong_answers AS wrong_answers,
			results.skipped_answers AS skipped_answers,
			results.accuracy AS accuracy,
			results.submitted_at AS submitted_at`).
		Joins("JOIN users ON users.id = results.user_id").
		Where("results.exam_id = ?", examID).
		Order("results.score DESC, results.correct_answers DESC").
		Scan(&rows).Error
	return rows, err
}
