package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

func newTestUserService(userRepo *MockUserRepo, examRepo *MockExamRepo, resultRepo *MockResultRepo) *UserService {
	return &UserService{
		userRepo:   userRepo,
		examRepo:   examRepo,
		resultRepo: resultRepo,
		now:        func() time.Time { return fixedNow },
	}
}

func TestUserService_GetDashboard(t *testing.T) {
	// Arrange: два активных экзамена, один уже сдан
	mockExamRepo := new(MockExamRepo)
	mockResultRepo := new(MockResultRepo)

	activeExams := []entity.Exam{
		{ID: 1, Title: "Физика", Subject: "Физика"},
		{ID: 2, Title: "Математика", Subject: "Математика"},
	}
	results := []entity.Result{
		{ID: 1, UserID: 42, ExamID: 1, Score: 8, TotalMarks: 10, SubmittedAt: fixedNow.Add(-24 * time.Hour)},
	}

	mockExamRepo.On("ListActive").Return(activeExams, nil)
	mockResultRepo.On("GetByUser", uint(42)).Return(results, nil)
	mockExamRepo.On("GetByIDs", []uint{1}).Return([]entity.Exam{activeExams[0]}, nil)

	service := newTestUserService(nil, mockExamRepo, mockResultRepo)

	// Act
	dashboard, err := service.GetDashboard(42)

	// Assert
	require.NoError(t, err)
	require.Len(t, dashboard.PendingExams, 1, "Сданный экзамен не попадает в несданные")
	assert.Equal(t, uint(2), dashboard.PendingExams[0].ID)
	assert.Equal(t, 1, dashboard.CompletedExams)
	assert.InDelta(t, 80.0, dashboard.AveragePercent, 1e-9)
	assert.Equal(t, 1, dashboard.WeeklyProgress.Completed, "Сдача за последние 7 дней учитывается в недельном прогрессе")
	assert.Equal(t, weeklyExamGoal, dashboard.WeeklyProgress.Goal)
	assert.Contains(t, dashboard.Badges, "Первый шаг")

	require.Len(t, dashboard.SubjectPerformance, 1)
	assert.Equal(t, "Физика", dashboard.SubjectPerformance[0].Subject)
	assert.InDelta(t, 80.0, dashboard.SubjectPerformance[0].AveragePercent, 1e-9)
}

func TestUserService_GetDashboard_OldSubmissionsOutsideWeek(t *testing.T) {
	// Сдача старше 7 дней не учитывается в недельном прогрессе
	mockExamRepo := new(MockExamRepo)
	mockResultRepo := new(MockResultRepo)

	mockExamRepo.On("ListActive").Return([]entity.Exam{}, nil)
	mockResultRepo.On("GetByUser", uint(42)).Return([]entity.Result{
		{ID: 1, UserID: 42, ExamID: 1, Score: 5, TotalMarks: 10, SubmittedAt: fixedNow.Add(-8 * 24 * time.Hour)},
	}, nil)
	mockExamRepo.On("GetByIDs", []uint{1}).Return([]entity.Exam{}, nil)

	service := newTestUserService(nil, mockExamRepo, mockResultRepo)

	dashboard, err := service.GetDashboard(42)

	require.NoError(t, err)
	assert.Equal(t, 0, dashboard.WeeklyProgress.Completed)
	assert.Equal(t, 1, dashboard.CompletedExams)
}

func TestUserService_Recommendations_WeakestSubjectFirst(t *testing.T) {
	// Рекомендации начинаются с самого слабого предмета студента
	mockExamRepo := new(MockExamRepo)
	mockResultRepo := new(MockResultRepo)

	activeExams := []entity.Exam{
		{ID: 3, Title: "Химия: кислоты", Subject: "Химия"},
		{ID: 4, Title: "Физика: оптика", Subject: "Физика"},
	}
	results := []entity.Result{
		{ID: 1, UserID: 42, ExamID: 1, Score: 9, TotalMarks: 10, SubmittedAt: fixedNow.Add(-time.Hour)},
		{ID: 2, UserID: 42, ExamID: 2, Score: 3, TotalMarks: 10, SubmittedAt: fixedNow.Add(-time.Hour)},
	}

	mockExamRepo.On("ListActive").Return(activeExams, nil)
	mockResultRepo.On("GetByUser", uint(42)).Return(results, nil)
	mockExamRepo.On("GetByIDs", []uint{1, 2}).Return([]entity.Exam{
		{ID: 1, Subject: "Физика"},
		{ID: 2, Subject: "Химия"},
	}, nil)

	service := newTestUserService(nil, mockExamRepo, mockResultRepo)

	dashboard, err := service.GetDashboard(42)

	require.NoError(t, err)
	require.NotEmpty(t, dashboard.Recommendations)
	assert.Equal(t, "Химия", dashboard.Recommendations[0].Subject,
		"Первой рекомендуется тема самого слабого предмета")
}

func TestUserService_ChangePassword_WrongCurrent(t *testing.T) {
	user := &entity.User{ID: 42, Email: "s@example.com", Password: "secret123"}
	hashPassword(t, user)

	mockUserRepo := new(MockUserRepo)
	mockUserRepo.On("GetByID", uint(42)).Return(user, nil)

	service := newTestUserService(mockUserRepo, nil, nil)

	err := service.ChangePassword(42, "wrong-password", "newsecret")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserService_ChangePassword_TooShort(t *testing.T) {
	service := newTestUserService(nil, nil, nil)

	err := service.ChangePassword(42, "secret123", "short")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCollectBadges(t *testing.T) {
	tests := []struct {
		name           string
		completed      int
		averagePercent float64
		perfectScore   bool
		want           []string
	}{
		{
			name:      "без результатов",
			completed: 0,
			want:      []string{},
		},
		{
			name:      "первая сдача",
			completed: 1,
			want:      []string{"Первый шаг"},
		},
		{
			name:           "отличник",
			completed:      5,
			averagePercent: 85,
			want:           []string{"Первый шаг", "Усердный ученик", "Отличник"},
		},
		{
			name:           "ветеран с идеальным результатом",
			completed:      10,
			averagePercent: 90,
			perfectScore:   true,
			want:           []string{"Первый шаг", "Усердный ученик", "Ветеран", "Перфекционист", "Отличник"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			badges := collectBadges(tt.completed, tt.averagePercent, tt.perfectScore)
			assert.ElementsMatch(t, tt.want, badges)
		})
	}
}
