package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	ws "github.com/yourusername/examportal-api/internal/websocket"
)

// Количество уведомлений в ленте пользователя
const notificationListLimit = 20

// Таймаут на всю email-рассылку одного события
const announceEmailTimeout = 2 * time.Minute

// NotificationService управляет уведомлениями пользователей.
// Рассылка при публикации экзамена или материала — побочный канал:
// строки в базе, событие в WebSocket и письма best-effort.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	emailService     EmailService
	wsHub            *ws.Hub
}

// NewNotificationService создает новый сервис уведомлений
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	wsHub *ws.Hub,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		wsHub:            wsHub,
	}
}

// AnnounceExam рассылает уведомления о новом экзамене всем студентам
// с включенными уведомлениями: строка в базе каждому, broadcast в
// WebSocket и письмо в фоне. Ошибки логируются и не возвращаются —
// публикация экзамена не должна падать из-за рассылки.
func (s *NotificationService) AnnounceExam(exam *entity.Exam) {
	students, err := s.userRepo.GetNotifiableStudents()
	if err != nil {
		log.Printf("[NotificationService] Ошибка выборки студентов для рассылки: %v", err)
		return
	}

	title := "Новый экзамен"
	message := fmt.Sprintf("Опубликован экзамен «%s» по предмету «%s»", exam.Title, exam.Subject)

	notifications := make([]entity.Notification, 0, len(students))
	for _, student := range students {
		notifications = append(notifications, entity.Notification{
			UserID:  student.ID,
			Title:   title,
			Message: message,
		})
	}
	if len(notifications) > 0 {
		if err := s.notificationRepo.CreateBatch(notifications); err != nil {
			log.Printf("[NotificationService] Ошибка сохранения уведомлений: %v", err)
		}
	}

	if s.wsHub != nil {
		s.wsHub.Broadcast(ws.Event{
			Type: ws.EventExamCreated,
			Payload: map[string]interface{}{
				"exam_id": exam.ID,
				"title":   exam.Title,
				"subject": exam.Subject,
			},
		})
	}

	// Письма уходят в фоне: рассылка может занять минуты
	go func(students []entity.User) {
		ctx, cancel := context.WithTimeout(context.Background(), announceEmailTimeout)
		defer cancel()

		sent := 0
		for _, student := range students {
			if ctx.Err() != nil {
				break
			}
			err := s.emailService.SendExamAnnouncement(
				ctx, student.Email, student.Name, exam.Title, exam.Subject, uuid.NewString())
			if err == nil {
				sent++
			}
		}
		log.Printf("[NotificationService] Письма о экзамене %d: отправлено %d из %d", exam.ID, sent, len(students))
	}(students)

	log.Printf("[NotificationService] Экзамен %d анонсирован %d студентам", exam.ID, len(students))
}

// AnnounceNote рассылает уведомления о новом учебном материале
// (без писем, только строки в базе и WebSocket)
func (s *NotificationService) AnnounceNote(note *entity.Note) {
	students, err := s.userRepo.GetNotifiableStudents()
	if err != nil {
		log.Printf("[NotificationService] Ошибка выборки студентов для рассылки: %v", err)
		return
	}

	notifications := make([]entity.Notification, 0, len(students))
	for _, student := range students {
		notifications = append(notifications, entity.Notification{
			UserID:  student.ID,
			Title:   "Новый материал",
			Message: fmt.Sprintf("Добавлен материал «%s» по предмету «%s»", note.Title, note.Subject),
		})
	}
	if len(notifications) > 0 {
		if err := s.notificationRepo.CreateBatch(notifications); err != nil {
			log.Printf("[NotificationService] Ошибка сохранения уведомлений: %v", err)
		}
	}

	if s.wsHub != nil {
		s.wsHub.Broadcast(ws.Event{
			Type: ws.EventNoteCreated,
			Payload: map[string]interface{}{
				"note_id": note.ID,
				"title":   note.Title,
				"subject": note.Subject,
			},
		})
	}
}

// List возвращает последние уведомления пользователя
func (s *NotificationService) List(userID uint) ([]entity.Notification, error) {
	return s.notificationRepo.ListByUser(userID, notificationListLimit)
}

// MarkAllRead помечает все уведомления пользователя прочитанными
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

// ToggleNotifications переключает подписку пользователя на уведомления
// и возвращает новое состояние
func (s *NotificationService) ToggleNotifications(userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return false, err
	}

	enabled := !user.NotificationsEnabled
	err = s.userRepo.UpdateProfile(userID, map[string]interface{}{
		"notifications_enabled": enabled,
	})
	if err != nil {
		return false, err
	}
	return enabled, nil
}

// DeleteOne удаляет уведомление из ленты пользователя
func (s *NotificationService) DeleteOne(notificationID, userID uint) error {
	return s.notificationRepo.DeleteOwned(notificationID, userID)
}

// DeleteAll очищает ленту уведомлений пользователя
func (s *NotificationService) DeleteAll(userID uint) error {
	return s.notificationRepo.DeleteAllByUser(userID)
}
