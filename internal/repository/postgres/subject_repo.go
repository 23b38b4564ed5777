package postgres

import (
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// SubjectRepo реализует repository.SubjectRepository
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo создает новый репозиторий предметов
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// Create создает новый предмет
func (r *SubjectRepo) Create(subject *entity.Subject) error {
	return r.db.Create(subject).Error
}

// ListActive возвращает активные предметы по алфавиту
func (r *SubjectRepo) ListActive() ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := r.db.Where("is_active = true").
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}
