package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	apperrors "github.com/yourusername/examportal-api/internal/pkg/errors"
	ws "github.com/yourusername/examportal-api/internal/websocket"
)

// ResultService подсчитывает и хранит результаты сдачи экзаменов.
// Это авторитетный подсчет: клиентский список вопросов никогда не
// используется, набор вопросов и правильные ответы берутся только из базы.
type ResultService struct {
	resultRepo      repository.ResultRepository
	examRepo        repository.ExamRepository
	questionRepo    repository.QuestionRepository
	leaderboardRepo repository.LeaderboardTotalRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

// NewResultService создает новый сервис результатов
func NewResultService(
	resultRepo repository.ResultRepository,
	examRepo repository.ExamRepository,
	questionRepo repository.QuestionRepository,
	leaderboardRepo repository.LeaderboardTotalRepository,
	db *gorm.DB,
	wsHub *ws.Hub,
) *ResultService {
	return &ResultService{
		resultRepo:      resultRepo,
		examRepo:        examRepo,
		questionRepo:    questionRepo,
		leaderboardRepo: leaderboardRepo,
		db:              db,
		wsHub:           wsHub,
	}
}

// scoreSummary - итог однопроходной оценки ответов
type scoreSummary struct {
	Score    float64
	Correct  int
	Wrong    int
	Skipped  int
	Accuracy float64
}

// evaluateAnswers оценивает ответы по полному набору вопросов экзамена.
// Итерация идет по вопросам, а не по присланным ответам: отсутствие ключа —
// пропуск (selectedOption = -1). Порядок проверки для каждого вопроса:
// пропущен → правильный (+1) → неправильный (-negativeMarks).
// Ответ с индексом вне диапазона вариантов не отклоняется, а засчитывается
// как неправильный — это осознанно сохраненное поведение, см. DESIGN.md.
// Итог один раз прижимается к нулю: отрицательные баллы не могут увести
// сумму ниже 0.
func evaluateAnswers(questions []entity.Question, answers map[uint]int) (scoreSummary, entity.AnswerArray) {
	var sum scoreSummary
	formatted := make(entity.AnswerArray, 0, len(questions))

	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			selected = entity.SkippedOption
		}

		formatted = append(formatted, entity.ResultAnswer{
			QuestionID:     q.ID,
			SelectedOption: selected,
		})

		switch {
		case selected == entity.SkippedOption:
			sum.Skipped++
		case q.IsCorrect(selected):
			sum.Score += 1 // ровно один балл за вопрос, без частичного зачета
			sum.Correct++
		default:
			sum.Score -= q.NegativeMarks
			sum.Wrong++
		}
	}

	if sum.Score < 0 {
		sum.Score = 0
	}

	if len(questions) > 0 {
		// Точность в процентах, один знак после запятой
		sum.Accuracy = math.Round(float64(sum.Correct)/float64(len(questions))*1000) / 10
	}

	return sum, formatted
}

// Submit превращает набор ответов студента в сохраненный результат.
// Вставка результата и инкремент накопительного итога лидерборда выполняются
// в одной транзакции. Повторная сдача заканчивается ErrConflict: ранняя
// проверка дает дружелюбную ошибку, а гонку одновременных submit закрывает
// уникальный индекс (user_id, exam_id) в базе.
func (s *ResultService) Submit(userID, examID uint, answers map[uint]int) (*entity.Result, error) {
	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, err
	}
	if !exam.IsActive {
		return nil, fmt.Errorf("%w: exam is not active", apperrors.ErrValidation)
	}

	exists, err := s.resultRepo.ExistsForUserAndExam(userID, examID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: exam already submitted", apperrors.ErrConflict)
	}

	questions, err := s.questionRepo.GetByExamID(examID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: exam has no questions", apperrors.ErrValidation)
	}

	summary, formatted := evaluateAnswers(questions, answers)

	result := &entity.Result{
		UserID:         userID,
		ExamID:         examID,
		Score:          summary.Score,
		TotalMarks:     len(questions), // количество вопросов на момент сдачи, не номинал экзамена
		CorrectAnswers: summary.Correct,
		WrongAnswers:   summary.Wrong,
		SkippedAnswers: summary.Skipped,
		Accuracy:       summary.Accuracy,
		Answers:        formatted,
		SubmittedAt:    time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.resultRepo.CreateInTx(tx, result); err != nil {
			return err
		}
		return s.leaderboardRepo.IncrementInTx(tx, userID, result.Score)
	})
	if err != nil {
		return nil, err
	}

	// Побочный канал: уведомляем клиента о готовности результата.
	// Fire-and-forget, на контракт подсчета не влияет.
	if s.wsHub != nil {
		s.wsHub.SendToUser(userID, ws.Event{
			Type: ws.EventResultReady,
			Payload: map[string]interface{}{
				"exam_id": examID,
				"score":   result.Score,
			},
		})
	}

	log.Printf("[ResultService] Экзамен %d сдан пользователем %d: score=%.2f correct=%d wrong=%d skipped=%d",
		examID, userID, result.Score, result.CorrectAnswers, result.WrongAnswers, result.SkippedAnswers)

	return result, nil
}

// RankOf возвращает ранг и перцентиль результата среди всех результатов
// его экзамена. Competition ranking: полностью равные результаты (score и
// correctAnswers) делят один ранг, следующий за ними пропускает номера.
// Считается на момент чтения, без кеша.
func (s *ResultService) RankOf(result *entity.Result) (rank int, percentile int, err error) {
	better, err := s.resultRepo.CountBetter(result.ExamID, result.Score, result.CorrectAnswers)
	if err != nil {
		return 0, 0, err
	}
	total, err := s.resultRepo.CountByExam(result.ExamID)
	if err != nil {
		return 0, 0, err
	}

	rank = int(better) + 1
	if total == 0 {
		// Вырожденный случай: защищаемся от деления на ноль
		return rank, 100, nil
	}
	percentile = int(math.Round(float64(total-int64(rank)) / float64(total) * 100))
	return rank, percentile, nil
}

// GetUserResult возвращает результат пользователя с рангом и перцентилем
func (s *ResultService) GetUserResult(userID, examID uint) (*entity.Result, int, int, error) {
	result, err := s.resultRepo.GetByUserAndExam(userID, examID)
	if err != nil {
		return nil, 0, 0, err
	}
	rank, percentile, err := s.RankOf(result)
	if err != nil {
		return nil, 0, 0, err
	}
	return result, rank, percentile, nil
}

// GetUserHistory возвращает историю результатов пользователя вместе с экзаменами
func (s *ResultService) GetUserHistory(userID uint) ([]entity.Result, map[uint]entity.Exam, error) {
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

// DeleteOwnedResult удаляет результат из истории пользователя.
// Удаление возможно только владельцем; накопительный итог лидерборда
// при этом сознательно не уменьшается (итог монотонный).
func (s *ResultService) DeleteOwnedResult(resultID, userID uint) error {
	return s.resultRepo.DeleteOwned(resultID, userID)
}
