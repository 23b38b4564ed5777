package service

import (
	"fmt"
	"log"
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// Ключ и время жизни кеша публичной статистики
const (
	landingStatsCacheKey = "landing:stats"
	landingStatsCacheTTL = 5 * time.Minute
)

// LandingStats - публичная статистика для главной страницы
type LandingStats struct {
	Students int64    `json:"students"`
	Exams    int64    `json:"exams"`
	Subjects []string `json:"subjects"`
}

// ExamService управляет экзаменами, вопросами и предметами
type ExamService struct {
	examRepo            repository.ExamRepository
	questionRepo        repository.QuestionRepository
	resultRepo          repository.ResultRepository
	subjectRepo         repository.SubjectRepository
	userRepo            repository.UserRepository
	cacheRepo           repository.CacheRepository
	notificationService *NotificationService
}

// NewExamService создает новый сервис экзаменов
func NewExamService(
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	subjectRepo repository.SubjectRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	notificationService *NotificationService,
) *ExamService {
	return &ExamService{
		examRepo:            examRepo,
		questionRepo:        questionRepo,
		resultRepo:          resultRepo,
		subjectRepo:         subjectRepo,
		userRepo:            userRepo,
		cacheRepo:           cacheRepo,
		notificationService: notificationService,
	}
}

// ListActive возвращает активные экзамены, новые первыми
func (s *ExamService) ListActive() ([]entity.Exam, error) {
	return s.examRepo.ListActive()
}

// GetByID возвращает экзамен по ID
func (s *ExamService) GetByID(examID uint) (*entity.Exam, error) {
	return s.examRepo.GetByID(examID)
}

// GetLandingStats возвращает публичную статистику портала.
// Счетчики кешируются в Redis на 5 минут; недоступность кеша не ломает
// эндпоинт — статистика просто считается из базы (fail-open).
func (s *ExamService) GetLandingStats() (*LandingStats, error) {
	var cached LandingStats
	if err := s.cacheRepo.GetJSON(landingStatsCacheKey, &cached); err == nil {
		return &cached, nil
	}

	students, err := s.userRepo.CountStudents()
	if err != nil {
		return nil, err
	}
	exams, err := s.examRepo.CountActive()
	if err != nil {
		return nil, err
	}
	subjects, err := s.examRepo.DistinctActiveSubjects()
	if err != nil {
		return nil, err
	}

	stats := &LandingStats{
		Students: students,
		Exams:    exams,
		Subjects: subjects,
	}

	if err := s.cacheRepo.SetJSON(landingStatsCacheKey, stats, landingStatsCacheTTL); err != nil {
		log.Printf("[ExamService] Не удалось закешировать статистику: %v", err)
	}
	return stats, nil
}

// Create создает новый экзамен и анонсирует его студентам.
// totalMarks всегда приравнивается к totalQuestions: один балл за вопрос.
func (s *ExamService) Create(exam *entity.Exam) error {
	if exam.Title == "" || exam.Subject == "" {
		return fmt.Errorf("%w: title and subject are required", apperrors.ErrValidation)
	}
	if exam.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrValidation)
	}

	exam.TotalMarks = exam.TotalQuestions

	if err := s.examRepo.Create(exam); err != nil {
		return err
	}
	s.invalidateLandingStats()

	if s.notificationService != nil {
		s.notificationService.AnnounceExam(exam)
	}

	log.Printf("[ExamService] Создан экзамен %d: %q (%s)", exam.ID, exam.Title, exam.Subject)
	return nil
}

// Update обновляет экзамен. Структурные поля (totalQuestions, totalMarks)
// заморожены после первой сдачи: существующие результаты считались против
// этого набора вопросов.
func (s *ExamService) Update(examID uint, updated *entity.Exam) (*entity.Exam, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.resultRepo.CountByExam(examID)
	if err != nil {
		return nil, err
	}
	if attempts > 0 && updated.TotalQuestions != 0 && updated.TotalQuestions != exam.TotalQuestions {
		return nil, fmt.Errorf("%w: cannot change question count after submissions exist", apperrors.ErrValidation)
	}

	exam.Title = updated.Title
	exam.Description = updated.Description
	exam.Subject = updated.Subject
	exam.StudentClass = updated.StudentClass
	exam.Duration = updated.Duration
	exam.IsActive = updated.IsActive

	if err := s.examRepo.Update(exam); err != nil {
		return nil, err
	}
	s.invalidateLandingStats()
	return exam, nil
}

// Delete удаляет экзамен вместе с вопросами и результатами
func (s *ExamService) Delete(examID uint) error {
	if _, err := s.examRepo.GetByID(examID); err != nil {
		return err
	}

	if err := s.resultRepo.DeleteByExamID(examID); err != nil {
		return err
	}
	if err := s.questionRepo.DeleteByExamID(examID); err != nil {
		return err
	}
	if err := s.examRepo.Delete(examID); err != nil {
		return err
	}
	s.invalidateLandingStats()

	log.Printf("[ExamService] Удален экзамен %d вместе с вопросами и результатами", examID)
	return nil
}

// AddQuestion добавляет один вопрос к экзамену
func (s *ExamService) AddQuestion(examID uint, question *entity.Question) error {
	return s.AddQuestions(examID, []entity.Question{*question})
}

// AddQuestions добавляет вопросы к экзамену пачкой и пересчитывает
// totalQuestions/totalMarks. Правильный вариант каждого вопроса обязан
// существовать среди его вариантов.
func (s *ExamService) AddQuestions(examID uint, questions []entity.Question) error {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: questions list is empty", apperrors.ErrValidation)
	}

	for i := range questions {
		q := &questions[i]
		q.ExamID = examID
		if q.Text == "" {
			return fmt.Errorf("%w: question %d has empty text", apperrors.ErrValidation, i+1)
		}
		if q.OptionsCount() < 2 {
			return fmt.Errorf("%w: question %d must have at least 2 options", apperrors.ErrValidation, i+1)
		}
		if !q.IsValidOption(q.CorrectOption) {
			return fmt.Errorf("%w: question %d correct option is not among its options", apperrors.ErrValidation, i+1)
		}
		if q.Marks == 0 {
			q.Marks = 1
		}
		if q.Difficulty == "" {
			q.Difficulty = entity.DifficultyMedium
		}
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return err
	}

	count, err := s.questionRepo.CountByExam(examID)
	if err != nil {
		return err
	}
	exam.TotalQuestions = int(count)
	exam.TotalMarks = int(count)
	if err := s.examRepo.Update(exam); err != nil {
		return err
	}

	log.Printf("[ExamService] К экзамену %d добавлено %d вопросов (всего %d)", examID, len(questions), count)
	return nil
}

// StartExam отдает экзамен с вопросами для сдачи.
// Экзамен должен быть активен, а студент — еще не сдавал его.
// Правильные ответы скрываются на уровне сериализации (json:"-").
func (s *ExamService) StartExam(userID, examID uint) (*entity.Exam, []entity.Question, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, nil, err
	}
	if !exam.IsActive {
		return nil, nil, fmt.Errorf("%w: exam is not active", apperrors.ErrValidation)
	}

	attempted, err := s.resultRepo.ExistsForUserAndExam(userID, examID)
	if err != nil {
		return nil, nil, err
	}
	if attempted {
		return nil, nil, fmt.Errorf("%w: exam already submitted", apperrors.ErrConflict)
	}

	questions, err := s.questionRepo.GetByExamID(examID)
	if err != nil {
		return nil, nil, err
	}
	if len(questions) == 0 {
		return nil, nil, fmt.Errorf("%w: exam has no questions", apperrors.ErrValidation)
	}

	return exam, questions, nil
}

// ListSubjects возвращает активные предметы
func (s *ExamService) ListSubjects() ([]entity.Subject, error) {
	return s.subjectRepo.ListActive()
}

// CreateSubject создает новый предмет
func (s *ExamService) CreateSubject(subject *entity.Subject) error {
	if subject.Name == "" {
		return fmt.Errorf("%w: subject name is required", apperrors.ErrValidation)
	}
	return s.subjectRepo.Create(subject)
}

func (s *ExamService) invalidateLandingStats() {
	if err := s.cacheRepo.Delete(landingStatsCacheKey); err != nil {
		log.Printf("[ExamService] Не удалось сбросить кеш статистики: %v", err)
	}
}
