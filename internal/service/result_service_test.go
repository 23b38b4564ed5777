package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
)

// ============================================================================
// Моки для ResultService
// ============================================================================

// MockResultRepo реализует repository.ResultRepository
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) CreateInTx(tx *gorm.DB, result *entity.Result) error {
	args := m.Called(tx, result)
	return args.Error(0)
}

func (m *MockResultRepo) GetByUserAndExam(userID, examID uint) (*entity.Result, error) {
	args := m.Called(userID, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Result), args.Error(1)
}

func (m *MockResultRepo) ExistsForUserAndExam(userID, examID uint) (bool, error) {
	args := m.Called(userID, examID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResultRepo) GetByUser(userID uint) ([]entity.Result, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

func (m *MockResultRepo) DeleteOwned(resultID, userID uint) error {
	args := m.Called(resultID, userID)
	return args.Error(0)
}

func (m *MockResultRepo) DeleteByUserID(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockResultRepo) DeleteByExamID(examID uint) error {
	args := m.Called(examID)
	return args.Error(0)
}

func (m *MockResultRepo) CountBetter(examID uint, score float64, correctAnswers int) (int64, error) {
	args := m.Called(examID, score, correctAnswers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepo) CountByExam(examID uint) (int64, error) {
	args := m.Called(examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepo) CountPassFail() (int64, int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepo) AggregateRange(from, to *time.Time, subject string, limit int) ([]repository.LeaderboardRow, error) {
	args := m.Called(from, to, subject, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.LeaderboardRow), args.Error(1)
}

func (m *MockResultRepo) ListForAnalytics() ([]repository.AnalyticsRow, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AnalyticsRow), args.Error(1)
}

func (m *MockResultRepo) ListByExamWithUsers(examID uint) ([]repository.ExamResultRow, error) {
	args := m.Called(examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ExamResultRow), args.Error(1)
}

// MockExamRepo реализует repository.ExamRepository
type MockExamRepo struct {
	mock.Mock
}

func (m *MockExamRepo) Create(exam *entity.Exam) error {
	args := m.Called(exam)
	return args.Error(0)
}

func (m *MockExamRepo) GetByID(id uint) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) GetByIDs(ids []uint) ([]entity.Exam, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Exam), args.Error(1)
}

func (m *MockExamRepo) Update(exam *entity.Exam) error {
	args := m.Called(exam)
	return args.Error(0)
}

func (m *MockExamRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockExamRepo) ListActive() ([]entity.Exam, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Exam), args.Error(1)
}

func (m *MockExamRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExamRepo) CountActive() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExamRepo) DistinctActiveSubjects() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByExamID(examID uint) ([]entity.Question, error) {
	args := m.Called(examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepo) CountByExam(examID uint) (int64, error) {
	args := m.Called(examID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepo) DeleteByExamID(examID uint) error {
	args := m.Called(examID)
	return args.Error(0)
}

// ============================================================================
// Вспомогательные функции
// ============================================================================

// twoOptions - стандартный набор вариантов для тестовых вопросов
func twoOptions() entity.OptionArray {
	return entity.OptionArray{
		{ID: 0, Text: "Вариант A"},
		{ID: 1, Text: "Вариант B"},
	}
}

// makeQuestions создает n вопросов с правильным вариантом 0 и штрафом penalty
func makeQuestions(n int, penalty float64) []entity.Question {
	questions := make([]entity.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, entity.Question{
			ID:            uint(i),
			ExamID:        1,
			Text:          "Вопрос",
			Options:       twoOptions(),
			CorrectOption: 0,
			Marks:         1,
			NegativeMarks: penalty,
		})
	}
	return questions
}

// ============================================================================
// Тесты подсчета ответов (evaluateAnswers)
// ============================================================================

func TestEvaluateAnswers_WorkedExample(t *testing.T) {
	// Два вопроса, negativeMarks=0.25: один правильный, один неправильный.
	// Итог: +1 - 0.25 = 0.75
	questions := makeQuestions(2, 0.25)
	answers := map[uint]int{
		1: 0, // правильно
		2: 1, // неправильно
	}

	summary, formatted := evaluateAnswers(questions, answers)

	assert.InDelta(t, 0.75, summary.Score, 1e-9, "Итог должен быть 0.75")
	assert.Equal(t, 1, summary.Correct)
	assert.Equal(t, 1, summary.Wrong)
	assert.Equal(t, 0, summary.Skipped)
	assert.InDelta(t, 50.0, summary.Accuracy, 1e-9, "Точность 1 из 2 = 50.0")
	assert.Len(t, formatted, 2, "Каждый вопрос фиксируется в ответах")
}

func TestEvaluateAnswers_CounterIdentity(t *testing.T) {
	// correct + wrong + skipped всегда равно количеству вопросов
	questions := makeQuestions(5, 0.5)
	answers := map[uint]int{
		1: 0, // правильно
		2: 1, // неправильно
		3: 1, // неправильно
		// 4, 5 - пропущены
	}

	summary, formatted := evaluateAnswers(questions, answers)

	assert.Equal(t, len(questions), summary.Correct+summary.Wrong+summary.Skipped,
		"Сумма счетчиков должна равняться количеству вопросов")
	assert.Len(t, formatted, len(questions))
}

func TestEvaluateAnswers_AllSkipped(t *testing.T) {
	// Пустой набор ответов: все вопросы пропущены, итог 0
	questions := makeQuestions(3, 1)

	summary, formatted := evaluateAnswers(questions, map[uint]int{})

	assert.Equal(t, 0.0, summary.Score)
	assert.Equal(t, 0, summary.Correct)
	assert.Equal(t, 0, summary.Wrong)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 0.0, summary.Accuracy)
	for _, a := range formatted {
		assert.Equal(t, entity.SkippedOption, a.SelectedOption,
			"Пропущенный вопрос фиксируется с selectedOption = -1")
	}
}

func TestEvaluateAnswers_FloorAtZero(t *testing.T) {
	// Все ответы неправильные с большим штрафом: итог прижимается к нулю,
	// а не уходит в минус
	questions := makeQuestions(4, 2)
	answers := map[uint]int{1: 1, 2: 1, 3: 1, 4: 1}

	summary, _ := evaluateAnswers(questions, answers)

	assert.Equal(t, 0.0, summary.Score, "Итог не может быть отрицательным")
	assert.Equal(t, 4, summary.Wrong)
}

func TestEvaluateAnswers_ScoreBounds(t *testing.T) {
	// Итог всегда в пределах [0, количество вопросов]
	questions := makeQuestions(10, 0.25)
	answers := map[uint]int{}
	for i := 1; i <= 10; i++ {
		answers[uint(i)] = i % 2 // половина правильных, половина неправильных
	}

	summary, _ := evaluateAnswers(questions, answers)

	assert.GreaterOrEqual(t, summary.Score, 0.0)
	assert.LessOrEqual(t, summary.Score, float64(len(questions)))
}

func TestEvaluateAnswers_OutOfRangeOptionIsWrong(t *testing.T) {
	// Индекс вне диапазона вариантов засчитывается как неправильный ответ
	questions := makeQuestions(2, 0.25)
	answers := map[uint]int{
		1: 99, // нет такого варианта
		2: 0,  // правильно
	}

	summary, _ := evaluateAnswers(questions, answers)

	assert.Equal(t, 1, summary.Correct)
	assert.Equal(t, 1, summary.Wrong, "Несуществующий вариант считается неправильным ответом")
	assert.InDelta(t, 0.75, summary.Score, 1e-9)
}

func TestEvaluateAnswers_AccuracyRounding(t *testing.T) {
	// 1 из 3 = 33.333...% округляется до одного знака: 33.3
	questions := makeQuestions(3, 0)
	answers := map[uint]int{1: 0}

	summary, _ := evaluateAnswers(questions, answers)

	assert.InDelta(t, 33.3, summary.Accuracy, 1e-9)
}

// ============================================================================
// Тесты Submit (проверки до транзакции; сама транзакция с уникальным
// индексом требует интеграционного теста с реальной базой)
// ============================================================================

func TestResultService_Submit_DuplicateRejected(t *testing.T) {
	// Arrange
	mockResultRepo := new(MockResultRepo)
	mockExamRepo := new(MockExamRepo)

	mockExamRepo.On("GetByID", uint(1)).Return(&entity.Exam{ID: 1, IsActive: true}, nil)
	mockResultRepo.On("ExistsForUserAndExam", uint(42), uint(1)).Return(true, nil)

	service := &ResultService{
		resultRepo: mockResultRepo,
		examRepo:   mockExamRepo,
	}

	// Act
	result, err := service.Submit(42, 1, map[uint]int{})

	// Assert
	require.Error(t, err, "Повторная сдача должна быть отклонена")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, result)
	mockResultRepo.AssertExpectations(t)
}

func TestResultService_Submit_InactiveExamRejected(t *testing.T) {
	mockExamRepo := new(MockExamRepo)
	mockExamRepo.On("GetByID", uint(1)).Return(&entity.Exam{ID: 1, IsActive: false}, nil)

	service := &ResultService{examRepo: mockExamRepo}

	_, err := service.Submit(42, 1, map[uint]int{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Неактивный экзамен нельзя сдавать")
}

func TestResultService_Submit_ExamWithoutQuestionsRejected(t *testing.T) {
	mockResultRepo := new(MockResultRepo)
	mockExamRepo := new(MockExamRepo)
	mockQuestionRepo := new(MockQuestionRepo)

	mockExamRepo.On("GetByID", uint(1)).Return(&entity.Exam{ID: 1, IsActive: true}, nil)
	mockResultRepo.On("ExistsForUserAndExam", uint(42), uint(1)).Return(false, nil)
	mockQuestionRepo.On("GetByExamID", uint(1)).Return([]entity.Question{}, nil)

	service := &ResultService{
		resultRepo:   mockResultRepo,
		examRepo:     mockExamRepo,
		questionRepo: mockQuestionRepo,
	}

	_, err := service.Submit(42, 1, map[uint]int{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// ============================================================================
// Тесты ранжирования (competition ranking)
// ============================================================================

func TestResultService_RankOf_CompetitionRanking(t *testing.T) {
	// Тройная ничья на первом месте: каждый из троих имеет rank=1
	// (никто их строго не опережает), четвертый получает rank=4
	mockResultRepo := new(MockResultRepo)

	// Для результата из тройки лидеров строго лучших нет
	mockResultRepo.On("CountBetter", uint(1), 8.0, 8).Return(int64(0), nil)
	mockResultRepo.On("CountByExam", uint(1)).Return(int64(4), nil).Times(2)
	// Четвертого опережают все трое
	mockResultRepo.On("CountBetter", uint(1), 5.0, 5).Return(int64(3), nil)

	service := &ResultService{resultRepo: mockResultRepo}

	// Act: результат из тройки
	rank, percentile, err := service.RankOf(&entity.Result{ExamID: 1, Score: 8, CorrectAnswers: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, rank, "Равные результаты делят первый ранг")
	assert.Equal(t, 75, percentile, "(4-1)/4*100 = 75")

	// Act: четвертый участник, ранги 2 и 3 пропущены
	rank, percentile, err = service.RankOf(&entity.Result{ExamID: 1, Score: 5, CorrectAnswers: 5})
	require.NoError(t, err)
	assert.Equal(t, 4, rank, "Следующий за тройной ничьей пропускает ранги 2 и 3")
	assert.Equal(t, 0, percentile)

	mockResultRepo.AssertExpectations(t)
}

func TestResultService_RankOf_TieBrokenByCorrectAnswers(t *testing.T) {
	// Одинаковый score, но больше правильных ответов - выше ранг
	mockResultRepo := new(MockResultRepo)

	// Результат с score=7, correct=7 опережается результатом score=7, correct=8
	mockResultRepo.On("CountBetter", uint(1), 7.0, 7).Return(int64(1), nil)
	mockResultRepo.On("CountByExam", uint(1)).Return(int64(2), nil)

	service := &ResultService{resultRepo: mockResultRepo}

	rank, _, err := service.RankOf(&entity.Result{ExamID: 1, Score: 7, CorrectAnswers: 7})

	require.NoError(t, err)
	assert.Equal(t, 2, rank)
	mockResultRepo.AssertExpectations(t)
}

func TestResultService_RankOf_ZeroParticipants(t *testing.T) {
	// Вырожденный случай: экзамен без участников, перцентиль 100
	mockResultRepo := new(MockResultRepo)
	mockResultRepo.On("CountBetter", uint(1), 0.0, 0).Return(int64(0), nil)
	mockResultRepo.On("CountByExam", uint(1)).Return(int64(0), nil)

	service := &ResultService{resultRepo: mockResultRepo}

	rank, percentile, err := service.RankOf(&entity.Result{ExamID: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, rank)
	assert.Equal(t, 100, percentile, "При нуле участников перцентиль равен 100")
}

// ============================================================================
// Тесты истории и удаления
// ============================================================================

func TestResultService_GetUserHistory(t *testing.T) {
	mockResultRepo := new(MockResultRepo)
	mockExamRepo := new(MockExamRepo)

	results := []entity.Result{
		{ID: 1, UserID: 42, ExamID: 10, Score: 8},
		{ID: 2, UserID: 42, ExamID: 20, Score: 5},
	}
	exams := []entity.Exam{
		{ID: 10, Title: "Физика"},
		{ID: 20, Title: "Математика"},
	}

	mockResultRepo.On("GetByUser", uint(42)).Return(results, nil)
	mockExamRepo.On("GetByIDs", []uint{10, 20}).Return(exams, nil)

	service := &ResultService{resultRepo: mockResultRepo, examRepo: mockExamRepo}

	gotResults, examsByID, err := service.GetUserHistory(42)

	require.NoError(t, err)
	assert.Len(t, gotResults, 2)
	assert.Equal(t, "Физика", examsByID[10].Title)
	assert.Equal(t, "Математика", examsByID[20].Title)
	mockResultRepo.AssertExpectations(t)
	mockExamRepo.AssertExpectations(t)
}

func TestResultService_DeleteOwnedResult_NotOwner(t *testing.T) {
	mockResultRepo := new(MockResultRepo)
	mockResultRepo.On("DeleteOwned", uint(5), uint(42)).Return(apperrors.ErrNotFound)

	service := &ResultService{resultRepo: mockResultRepo}

	err := service.DeleteOwnedResult(5, 42)

	assert.ErrorIs(t, err, apperrors.ErrNotFound, "Чужой результат удалить нельзя")
}
