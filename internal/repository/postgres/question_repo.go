package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает один вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает вопросы пачкой (массовая загрузка при создании экзамена)
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

// GetByExamID возвращает полный набор вопросов экзамена в порядке загрузки.
// Включает CorrectOption — вызывающая сторона отвечает за то, чтобы не отдать
// его клиенту, сдающему экзамен.
func (r *QuestionRepo) GetByExamID(examID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("exam_id = ?", examID).
		Order("id ASC").
		Find(&questions).Error
	return questions, err
}

// Count возвращает общее количество вопросов
func (r *QuestionRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Count(&count).Error
	return count, err
}

// CountByExam возвращает количество вопросов экзамена
func (r *QuestionRepo) CountByExam(examID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

// DeleteByExamID удаляет все вопросы экзамена
func (r *QuestionRepo) DeleteByExamID(examID uint) error {
	return r.db.Where("exam_id = ?", examID).Delete(&entity.Question{}).Error
}
