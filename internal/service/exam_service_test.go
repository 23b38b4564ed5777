package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// MockCacheRepo реализует repository.CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func TestExamService_GetLandingStats_CacheMissFailOpen(t *testing.T) {
	// Redis недоступен: статистика считается из базы, ошибка кеша не всплывает
	mockUserRepo := new(MockUserRepo)
	mockExamRepo := new(MockExamRepo)
	mockCacheRepo := new(MockCacheRepo)

	mockCacheRepo.On("GetJSON", landingStatsCacheKey, mock.Anything).Return(errors.New("redis down"))
	mockUserRepo.On("CountStudents").Return(int64(120), nil)
	mockExamRepo.On("CountActive").Return(int64(8), nil)
	mockExamRepo.On("DistinctActiveSubjects").Return([]string{"Физика", "Химия"}, nil)
	mockCacheRepo.On("SetJSON", landingStatsCacheKey, mock.Anything, landingStatsCacheTTL).
		Return(errors.New("redis down"))

	service := &ExamService{
		examRepo:  mockExamRepo,
		userRepo:  mockUserRepo,
		cacheRepo: mockCacheRepo,
	}

	stats, err := service.GetLandingStats()

	require.NoError(t, err, "Недоступность кеша не должна ломать эндпоинт")
	assert.Equal(t, int64(120), stats.Students)
	assert.Equal(t, int64(8), stats.Exams)
	assert.Equal(t, []string{"Физика", "Химия"}, stats.Subjects)
	mockCacheRepo.AssertExpectations(t)
}

func TestExamService_StartExam_AlreadyAttempted(t *testing.T) {
	mockExamRepo := new(MockExamRepo)
	mockResultRepo := new(MockResultRepo)

	mockExamRepo.On("GetByID", uint(1)).Return(&entity.Exam{ID: 1, IsActive: true}, nil)
	mockResultRepo.On("ExistsForUserAndExam", uint(42), uint(1)).Return(true, nil)

	service := &ExamService{examRepo: mockExamRepo, resultRepo: mockResultRepo}

	_, _, err := service.StartExam(42, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "Повторный вход в сданный экзамен запрещен")
}

func TestExamService_StartExam_InactiveExam(t *testing.T) {
	mockExamRepo := new(MockExamRepo)
	mockExamRepo.On("GetByID", uint(1)).Return(&entity.Exam{ID: 1, IsActive: false}, nil)

	service := &ExamService{examRepo: mockExamRepo}

	_, _, err := service.StartExam(42, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExamService_AddQuestions_InvalidCorrectOption(t *testing.T) {
	// Правильный вариант обязан существовать среди вариантов вопроса
	mockExamRepo := new(MockExamRepo)
	mockExamRepo.On("GetByID", uint(1)).Return(&entity.Exam{ID: 1}, nil)

	service := &ExamService{examRepo: mockExamRepo}

	questions := []entity.Question{
		{
			Text:          "Вопрос с битым ответом",
			Options:       twoOptions(),
			CorrectOption: 5, // нет варианта с ID 5
		},
	}

	err := service.AddQuestions(1, questions)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExamService_Create_TotalMarksEqualsQuestions(t *testing.T) {
	// totalMarks всегда приравнивается к totalQuestions
	mockExamRepo := new(MockExamRepo)
	mockCacheRepo := new(MockCacheRepo)

	mockExamRepo.On("Create", mock.AnythingOfType("*entity.Exam")).Return(nil)
	mockCacheRepo.On("Delete", landingStatsCacheKey).Return(nil)

	service := &ExamService{examRepo: mockExamRepo, cacheRepo: mockCacheRepo}

	exam := &entity.Exam{
		Title:          "Новый экзамен",
		Subject:        "Физика",
		Duration:       60,
		TotalQuestions: 25,
		TotalMarks:     999, // перетирается
	}

	require.NoError(t, service.Create(exam))
	assert.Equal(t, 25, exam.TotalMarks, "Один балл за вопрос: totalMarks == totalQuestions")
	mockExamRepo.AssertExpectations(t)
}
