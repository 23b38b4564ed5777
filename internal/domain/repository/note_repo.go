package repository

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// NoteRepository определяет методы для работы с учебными материалами
type NoteRepository interface {
	Create(note *entity.Note) error
	GetByID(id uint) (*entity.Note, error)
	Update(note *entity.Note) error
	Delete(id uint) error
	// List возвращает материалы, новые первыми. subject — точный фильтр
	// (пусто или "all" — без фильтра), search — подстрока заголовка без
	// учета регистра.
	List(subject, search string) ([]entity.Note, error)
	IncrementDownloads(id uint) error
}
