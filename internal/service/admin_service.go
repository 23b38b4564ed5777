package service

import (
	"log"
	"math"
	"sort"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
)

// Количество недавних студентов на админской сводке
const recentStudentsLimit = 5

// AdminDashboard - сводка для панели администратора
type AdminDashboard struct {
	TotalStudents  int64         `json:"total_students"`
	TotalExams     int64         `json:"total_exams"`
	ActiveExams    int64         `json:"active_exams"`
	TotalQuestions int64         `json:"total_questions"`
	TotalResults   int64         `json:"total_results"`
	PassedResults  int64         `json:"passed_results"`
	FailedResults  int64         `json:"failed_results"`
	RecentStudents []entity.User `json:"recent_students"`
}

// StudentAnalytics - агрегированная успеваемость одного студента
type StudentAnalytics struct {
	UserID          uint               `json:"user_id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	ExamsTaken      int                `json:"exams_taken"`
	AveragePercent  float64            `json:"average_percent"`
	SubjectAverages map[string]float64 `json:"subject_averages"`
}

// AdminService собирает админские сводки и управляет пользователями
type AdminService struct {
	userRepo         repository.UserRepository
	examRepo         repository.ExamRepository
	questionRepo     repository.QuestionRepository
	resultRepo       repository.ResultRepository
	notificationRepo repository.NotificationRepository
}

// NewAdminService создает новый административный сервис
func NewAdminService(
	userRepo repository.UserRepository,
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	notificationRepo repository.NotificationRepository,
) *AdminService {
	return &AdminService{
		userRepo:         userRepo,
		examRepo:         examRepo,
		questionRepo:     questionRepo,
		resultRepo:       resultRepo,
		notificationRepo: notificationRepo,
	}
}

// GetDashboard возвращает сводку для панели администратора.
// Порог сдачи — 40% от максимума результата.
func (s *AdminService) GetDashboard() (*AdminDashboard, error) {
	students, err := s.userRepo.CountStudents()
	if err != nil {
		return nil, err
	}
	exams, err := s.examRepo.Count()
	if err != nil {
		return nil, err
	}
	activeExams, err := s.examRepo.CountActive()
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.Count()
	if err != nil {
		return nil, err
	}
	results, err := s.resultRepo.Count()
	if err != nil {
		return nil, err
	}
	passed, failed, err := s.resultRepo.CountPassFail()
	if err != nil {
		return nil, err
	}
	recent, err := s.userRepo.GetRecentStudents(recentStudentsLimit)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalStudents:  students,
		TotalExams:     exams,
		ActiveExams:    activeExams,
		TotalQuestions: questions,
		TotalResults:   results,
		PassedResults:  passed,
		FailedResults:  failed,
		RecentStudents: recent,
	}, nil
}

// GetStudentAnalytics возвращает успеваемость всех студентов: количество
// сданных экзаменов, средний процент и средние по предметам. Студенты без
// результатов тоже включаются (с нулями).
func (s *AdminService) GetStudentAnalytics() ([]StudentAnalytics, error) {
	students, err := s.userRepo.ListStudents()
	if err != nil {
		return nil, err
	}
	rows, err := s.resultRepo.ListForAnalytics()
	if err != nil {
		return nil, err
	}

	type accumulator struct {
		percentSum  float64
		count       int
		subjectSum  map[string]float64
		subjectHits map[string]int
	}
	byUser := make(map[uint]*accumulator)
	for _, row := range rows {
		acc, ok := byUser[row.UserID]
		if !ok {
			acc = &accumulator{
				subjectSum:  map[string]float64{},
				subjectHits: map[string]int{},
			}
			byUser[row.UserID] = acc
		}

		var percent float64
		if row.TotalMarks > 0 {
			percent = row.Score / float64(row.TotalMarks) * 100
		}
		acc.percentSum += percent
		acc.count++
		if row.Subject != "" {
			acc.subjectSum[row.Subject] += percent
			acc.subjectHits[row.Subject]++
		}
	}

	analytics := make([]StudentAnalytics, 0, len(students))
	for _, student := range students {
		item := StudentAnalytics{
			UserID:          student.ID,
			Name:            student.Name,
			Email:           student.Email,
			SubjectAverages: map[string]float64{},
		}
		if acc, ok := byUser[student.ID]; ok && acc.count > 0 {
			item.ExamsTaken = acc.count
			item.AveragePercent = math.Round(acc.percentSum/float64(acc.count)*10) / 10
			for subject, sum := range acc.subjectSum {
				item.SubjectAverages[subject] = math.Round(sum/float64(acc.subjectHits[subject])*10) / 10
			}
		}
		analytics = append(analytics, item)
	}

	sort.Slice(analytics, func(i, j int) bool {
		return analytics[i].AveragePercent > analytics[j].AveragePercent
	})
	return analytics, nil
}

// ListStudents возвращает всех студентов
func (s *AdminService) ListStudents() ([]entity.User, error) {
	return s.userRepo.ListStudents()
}

// GetStudentResults возвращает результаты конкретного студента с экзаменами
func (s *AdminService) GetStudentResults(userID uint) ([]entity.Result, map[uint]entity.Exam, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, nil, err
	}

	results, err := s.resultRepo.GetByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	examIDs := make([]uint, 0, len(results))
	for _, r := range results {
		examIDs = append(examIDs, r.ExamID)
	}
	exams, err := s.examRepo.GetByIDs(examIDs)
	if err != nil {
		return nil, nil, err
	}
	examsByID := make(map[uint]entity.Exam, len(exams))
	for _, e := range exams {
		examsByID[e.ID] = e
	}
	return results, examsByID, nil
}

// DeleteStudent удаляет аккаунт студента вместе с его результатами
// и уведомлениями. Накопительный итог лидерборда остается как есть.
func (s *AdminService) DeleteStudent(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := s.resultRepo.DeleteByUserID(userID); err != nil {
		return err
	}
	if err := s.notificationRepo.DeleteAllByUser(userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return err
	}

	log.Printf("[AdminService] Удален студент %d (%s) вместе с результатами", userID, user.Email)
	return nil
}

// GetExamResults возвращает результаты экзамена с данными студентов
// (для списка и выгрузки)
func (s *AdminService) GetExamResults(examID uint) (*entity.Exam, []repository.ExamResultRow, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.resultRepo.ListByExamWithUsers(examID)
	if err != nil {
		return nil, nil, err
	}
	return exam, rows, nil
}
