package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// ExamRepo реализует repository.ExamRepository
type ExamRepo struct {
	db *gorm.DB
}

// NewExamRepo создает новый репозиторий экзаменов
func NewExamRepo(db *gorm.DB) *ExamRepo {
	return &ExamRepo{db: db}
}

// Create создает новый экзамен
func (r *ExamRepo) Create(exam *entity.Exam) error {
	return r.db.Create(exam).Error
}

// GetByID возвращает экзамен по ID
func (r *ExamRepo) GetByID(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetByIDs возвращает экзамены по списку ID
func (r *ExamRepo) GetByIDs(ids []uint) ([]entity.Exam, error) {
	if len(ids) == 0 {
		return []entity.Exam{}, nil
	}
	var exams []entity.Exam
	err := r.db.Where("id IN ?", ids).Find(&exams).Error
	return exams, err
}

// Update обновляет экзамен
func (r *ExamRepo) Update(exam *entity.Exam) error {
	return r.db.Save(exam).Error
}

// Delete удаляет экзамен
func (r *ExamRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Exam{}, id).Error
}

// ListActive возвращает активные экзамены, новые первыми
func (r *ExamRepo) ListActive() ([]entity.Exam, error) {
	var exams []entity.Exam
	err := r.db.Where("is_active = true").
		Order("created_at DESC").
		Find(&exams).Error
	return exams, err
}

// Count возвращает общее количество экзаменов
func (r *ExamRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Exam{}).Count(&count).Error
	return count, err
}

// CountActive возвращает количество активных экзаменов
func (r *ExamRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Exam{}).Where("is_active = true").Count(&count).Error
	return count, err
}

// DistinctActiveSubjects возвращает список предметов активных экзаменов
func (r *ExamRepo) DistinctActiveSubjects() ([]string, error) {
	var subjects []string
	err := r.db.Model(&entity.Exam{}).
		Where("is_active = true").
		Distinct("subject").
		Order("subject").
		Pluck("subject", &subjects).Error
	return subjects, err
}
