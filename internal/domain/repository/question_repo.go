package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	// GetByExamID возвращает полный упорядоченный набор вопросов экзамена,
	// включая скрытое поле CorrectOption. Порядок — по возрастанию ID
	// (порядок загрузки при создании экзамена).
	GetByExamID(examID uint) ([]entity.Question, error)
	Count() (int64, error)
	CountByExam(examID uint) (int64, error)
	DeleteByExamID(examID uint) error
}
