package service

import (
	"fmt"
	"log"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// NoteService управляет учебными материалами
type NoteService struct {
	noteRepo            repository.NoteRepository
	notificationService *NotificationService
}

// NewNoteService создает новый сервис материалов
func NewNoteService(noteRepo repository.NoteRepository, notificationService *NotificationService) *NoteService {
	return &NoteService{
		noteRepo:            noteRepo,
		notificationService: notificationService,
	}
}

// List возвращает материалы с фильтром по предмету и поиском по заголовку
func (s *NoteService) List(subject, search string) ([]entity.Note, error) {
	return s.noteRepo.List(subject, search)
}

// Create создает материал и анонсирует его студентам
func (s *NoteService) Create(note *entity.Note) error {
	if note.Title == "" || note.Subject == "" || note.FileURL == "" {
		return fmt.Errorf("%w: title, subject and file_url are required", apperrors.ErrValidation)
	}
	if note.Type == "" {
		note.Type = "PDF"
	}

	if err := s.noteRepo.Create(note); err != nil {
		return err
	}

	if s.notificationService != nil {
		s.notificationService.AnnounceNote(note)
	}

	log.Printf("[NoteService] Создан материал %d: %q (%s)", note.ID, note.Title, note.Subject)
	return nil
}

// Update обновляет материал
func (s *NoteService) Update(noteID uint, updated *entity.Note) (*entity.Note, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return nil, err
	}

	if updated.Title != "" {
		note.Title = updated.Title
	}
	if updated.Subject != "" {
		note.Subject = updated.Subject
	}
	if updated.FileURL != "" {
		note.FileURL = updated.FileURL
	}
	if updated.Type != "" {
		note.Type = updated.Type
	}

	if err := s.noteRepo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete удаляет материал
func (s *NoteService) Delete(noteID uint) error {
	if _, err := s.noteRepo.GetByID(noteID); err != nil {
		return err
	}
	return s.noteRepo.Delete(noteID)
}

// RegisterDownload увеличивает счетчик скачиваний и возвращает ссылку на файл
func (s *NoteService) RegisterDownload(noteID uint) (string, error) {
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return "", err
	}
	if err := s.noteRepo.IncrementDownloads(noteID); err != nil {
		// Счетчик не критичен, скачивание важнее
		log.Printf("[NoteService] Не удалось увеличить счетчик скачиваний материала %d: %v", noteID, err)
	}
	return note.FileURL, nil
}
