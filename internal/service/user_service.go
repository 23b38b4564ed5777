package service

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// Недельная цель студента: количество сдач за последние 7 дней
const weeklyExamGoal = 5

// SubjectPerformance - успеваемость студента по одному предмету
type SubjectPerformance struct {
	Subject        string  `json:"subject"`
	Attempts       int     `json:"attempts"`
	AveragePercent float64 `json:"average_percent"`
}

// WeeklyProgress - прогресс студента к недельной цели
type WeeklyProgress struct {
	Completed int `json:"completed"`
	Goal      int `json:"goal"`
}

// Recommendation - рекомендованный студенту экзамен
type Recommendation struct {
	ExamID  uint   `json:"exam_id"`
	Title   string `json:"title"`
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

// Dashboard - сводка личного кабинета студента
type Dashboard struct {
	PendingExams       []entity.Exam        `json:"pending_exams"`
	CompletedExams     int                  `json:"completed_exams"`
	AveragePercent     float64              `json:"average_percent"`
	SubjectPerformance []SubjectPerformance `json:"subject_performance"`
	WeeklyProgress     WeeklyProgress       `json:"weekly_progress"`
	Badges             []string             `json:"badges"`
	Recommendations    []Recommendation     `json:"recommendations"`
}

// UserService управляет профилем и личным кабинетом студента
type UserService struct {
	userRepo   repository.UserRepository
	examRepo   repository.ExamRepository
	resultRepo repository.ResultRepository

	// now подменяется в тестах
	now func() time.Time
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	examRepo repository.ExamRepository,
	resultRepo repository.ResultRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		examRepo:   examRepo,
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

// GetProfile возвращает профиль пользователя
func (s *UserService) GetProfile(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile обновляет редактируемые поля профиля.
// Email, роль и пароль через профиль не меняются.
func (s *UserService) UpdateProfile(userID uint, name, studentClass, stream, profileImage, bio string) (*entity.User, error) {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if studentClass != "" {
		updates["student_class"] = studentClass
	}
	if stream != "" {
		updates["stream"] = stream
	}
	if profileImage != "" {
		updates["profile_image"] = profileImage
	}
	if bio != "" {
		updates["bio"] = bio
	}

	if len(updates) > 0 {
		if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
			return nil, err
		}
	}
	return s.userRepo.GetByID(userID)
}

// ChangePassword меняет пароль после проверки текущего
func (s *UserService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(currentPassword) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrUnauthorized)
	}

	if err := s.userRepo.UpdatePassword(userID, newPassword); err != nil {
		return err
	}
	log.Printf("[UserService] Пользователь %d сменил пароль", userID)
	return nil
}

// GetDashboard собирает сводку личного кабинета: несданные и сданные
// экзамены, средний процент, успеваемость по предметам, недельный прогресс,
// значки и рекомендации.
func (s *UserService) GetDashboard(userID uint) (*Dashboard, error) {
	activeExams, err := s.examRepo.ListActive()
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	attemptedExamIDs := make(map[uint]bool, len(results))
	examIDs := make([]uint, 0, len(results))
	for _, r := range results {
		attemptedExamIDs[r.ExamID] = true
		examIDs = append(examIDs, r.ExamID)
	}

	pending := make([]entity.Exam, 0, len(activeExams))
	for _, exam := range activeExams {
		if !attemptedExamIDs[exam.ID] {
			pending = append(pending, exam)
		}
	}

	attemptedExams, err := s.examRepo.GetByIDs(examIDs)
	if err != nil {
		return nil, err
	}
	subjectByExam := make(map[uint]string, len(attemptedExams))
	for _, exam := range attemptedExams {
		subjectByExam[exam.ID] = exam.Subject
	}

	dashboard := &Dashboard{
		PendingExams:       pending,
		CompletedExams:     len(results),
		SubjectPerformance: []SubjectPerformance{},
		WeeklyProgress:     WeeklyProgress{Goal: weeklyExamGoal},
		Badges:             []string{},
		Recommendations:    []Recommendation{},
	}

	weekAgo := s.now().Add(-7 * 24 * time.Hour)
	perfectScore := false
	var percentSum float64
	subjectSums := map[string]*SubjectPerformance{}

	for _, r := range results {
		percent := r.Percentage()
		percentSum += percent
		if r.Score == float64(r.TotalMarks) && r.TotalMarks > 0 {
			perfectScore = true
		}
		if r.SubmittedAt.After(weekAgo) {
			dashboard.WeeklyProgress.Completed++
		}

		subject := subjectByExam[r.ExamID]
		if subject == "" {
			continue
		}
		perf, ok := subjectSums[subject]
		if !ok {
			perf = &SubjectPerformance{Subject: subject}
			subjectSums[subject] = perf
		}
		perf.Attempts++
		perf.AveragePercent += percent
	}

	if len(results) > 0 {
		dashboard.AveragePercent = math.Round(percentSum/float64(len(results))*10) / 10
	}

	for _, perf := range subjectSums {
		perf.AveragePercent = math.Round(perf.AveragePercent/float64(perf.Attempts)*10) / 10
		dashboard.SubjectPerformance = append(dashboard.SubjectPerformance, *perf)
	}
	sort.Slice(dashboard.SubjectPerformance, func(i, j int) bool {
		return dashboard.SubjectPerformance[i].AveragePercent > dashboard.SubjectPerformance[j].AveragePercent
	})

	dashboard.Badges = collectBadges(len(results), dashboard.AveragePercent, perfectScore)
	dashboard.Recommendations = s.recommend(pending, dashboard.SubjectPerformance)

	return dashboard, nil
}

// collectBadges возвращает значки студента по его результатам
func collectBadges(completed int, averagePercent float64, perfectScore bool) []string {
	badges := []string{}
	if completed >= 1 {
		badges = append(badges, "Первый шаг")
	}
	if completed >= 5 {
		badges = append(badges, "Усердный ученик")
	}
	if completed >= 10 {
		badges = append(badges, "Ветеран")
	}
	if perfectScore {
		badges = append(badges, "Перфекционист")
	}
	if completed >= 3 && averagePercent >= 80 {
		badges = append(badges, "Отличник")
	}
	return badges
}

// recommend подбирает экзамены: сначала из самого слабого предмета
// студента, дальше просто свежие несданные
func (s *UserService) recommend(pending []entity.Exam, performance []SubjectPerformance) []Recommendation {
	const maxRecommendations = 3
	recommendations := []Recommendation{}
	recommended := map[uint]bool{}

	if len(performance) > 0 {
		weakest := performance[len(performance)-1]
		for _, exam := range pending {
			if exam.Subject != weakest.Subject {
				continue
			}
			recommendations = append(recommendations, Recommendation{
				ExamID:  exam.ID,
				Title:   exam.Title,
				Subject: exam.Subject,
				Reason:  fmt.Sprintf("Подтяните %s: средний результат %.1f%%", weakest.Subject, weakest.AveragePercent),
			})
			recommended[exam.ID] = true
			if len(recommendations) >= maxRecommendations {
				return recommendations
			}
		}
	}

	for _, exam := range pending {
		if recommended[exam.ID] {
			continue
		}
		recommendations = append(recommendations, Recommendation{
			ExamID:  exam.ID,
			Title:   exam.Title,
			Subject: exam.Subject,
			Reason:  "Новый экзамен, который вы еще не сдавали",
		})
		if len(recommendations) >= maxRecommendations {
			break
		}
	}
	return recommendations
}
