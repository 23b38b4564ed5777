package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// ExamRepository определяет методы для работы с экзаменами
type ExamRepository interface {
	Create(exam *entity.Exam) error
	GetByID(id uint) (*entity.Exam, error)
	GetByIDs(ids []uint) ([]entity.Exam, error)
	Update(exam *entity.Exam) error
	Delete(id uint) error

	// ListActive возвращает активные экзамены, новые первыми
	ListActive() ([]entity.Exam, error)
	Count() (int64, error)
	CountActive() (int64, error)
	// DistinctActiveSubjects возвращает список предметов активных экзаменов
	DistinctActiveSubjects() ([]string, error)
}
