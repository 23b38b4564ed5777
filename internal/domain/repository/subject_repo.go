package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// SubjectRepository определяет методы для работы с предметами
type SubjectRepository interface {
	Create(subject *entity.Subject) error
	ListActive() ([]entity.Subject, error)
}
