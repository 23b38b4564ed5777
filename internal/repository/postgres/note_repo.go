package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// NoteRepo реализует repository.NoteRepository
type NoteRepo struct {
	db *gorm.DB
}

// NewNoteRepo создает новый репозиторий учебных материалов
func NewNoteRepo(db *gorm.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create создает новый материал
func (r *NoteRepo) Create(note *entity.Note) error {
	return r.db.Create(note).Error
}

// GetByID возвращает материал по ID
func (r *NoteRepo) GetByID(id uint) (*entity.Note, error) {
	var note entity.Note
	err := r.db.First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// Update обновляет материал
func (r *NoteRepo) Update(note *entity.Note) error {
	return r.db.Save(note).Error
}

// Delete удаляет материал
func (r *NoteRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Note{}, id).Error
}

// List возвращает материалы, новые первыми, с фильтром по предмету и поиском
// по заголовку
func (r *NoteRepo) List(subject, search string) ([]entity.Note, error) {
	query := r.db.Model(&entity.Note{})

	if subject != "" && subject != "all" {
		query = query.Where("subject = ?", subject)
	}
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var notes []entity.Note
	err := query.Order("created_at DESC").Find(&notes).Error
	return notes, err
}

// IncrementDownloads увеличивает счетчик скачиваний
func (r *NoteRepo) IncrementDownloads(id uint) error {
	return r.db.Model(&entity.Note{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}
