package service

import (
	"log"
	"math"
	"time"

	"github.com/yourusername/examportal-api/internal/domain/repository"
)

// Временные рамки лидерборда
const (
	TimeframeWeekly  = "weekly"
	TimeframeAllTime = "all-time"
)

const (
	// Кандидаты ограничиваются до ранжирования (контроль стоимости запроса)
	leaderboardCandidateLimit = 100
	// Первая тройка отдается отдельно
	leaderboardTopSize = 3
	// Остальной список ограничен позициями 4..50
	leaderboardRestCutoff = 50
	// Длина окна
	leaderboardWindow = 7 * 24 * time.Hour
)

// LeaderboardEntry представляет одну позицию текущего рейтинга
type LeaderboardEntry struct {
	UserID     uint    `json:"user_id"`
	Name       string  `json:"name"`
	Avatar     string  `json:"avatar"`
	Score      float64 `json:"score"`
	ExamsTaken int     `json:"exams"`
	Rank       int     `json:"rank"`
	// RankChange = previousRank - currentRank (положительное — подъем).
	// Для новичков окна RankChange не определен: IsNew = true.
	RankChange int  `json:"rank_change"`
	IsNew      bool `json:"is_new"`
}

// ViewerRank представляет позицию запрашивающего пользователя
type ViewerRank struct {
	Position   int     `json:"position"`
	Score      float64 `json:"score"`
	RankChange int     `json:"rank_change"`
	IsNew      bool    `json:"is_new"`
	Percentile int     `json:"percentile"`
}

// Leaderboard - итоговый ответ лидерборда
type Leaderboard struct {
	TopThree []LeaderboardEntry `json:"topThree"`
	Rest     []LeaderboardEntry `json:"rest"`
	UserRank *ViewerRank        `json:"userRank"`
}

// LeaderboardService строит оконные рейтинги поверх истории результатов.
// Рейтинг полностью пересчитывается на каждый запрос; согласованность
// снапшотов текущего и предыдущего окон между собой не гарантируется
// (и не требуется).
type LeaderboardService struct {
	resultRepo repository.ResultRepository

	// now подменяется в тестах
	now func() time.Time
}

// NewLeaderboardService создает новый сервис лидерборда
func NewLeaderboardService(resultRepo repository.ResultRepository) *LeaderboardService {
	return &LeaderboardService{
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

// windowBounds возвращает границы текущего и предыдущего окон.
// weekly: текущее — последние 7 дней, предыдущее — 7 дней до них.
// all-time: текущее не ограничено, предыдущее — все старше 7 дней.
// Предыдущее окно существует только для расчета изменения ранга.
func (s *LeaderboardService) windowBounds(timeframe string) (curFrom, curTo, prevFrom, prevTo *time.Time) {
	now := s.now()
	weekAgo := now.Add(-leaderboardWindow)

	if timeframe == TimeframeWeekly {
		twoWeeksAgo := now.Add(-2 * leaderboardWindow)
		return &weekAgo, nil, &twoWeeksAgo, &weekAgo
	}
	// all-time
	return nil, nil, nil, &weekAgo
}

// Get строит лидерборд для timeframe ("weekly" или "all-time") с опциональным
// фильтром по предмету. viewerID = 0 — анонимный запрос.
func (s *LeaderboardService) Get(timeframe, subject string, viewerID uint) (*Leaderboard, error) {
	curFrom, curTo, prevFrom, prevTo := s.windowBounds(timeframe)

	current, err := s.resultRepo.AggregateRange(curFrom, curTo, subject, leaderboardCandidateLimit)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка агрегации текущего окна: %v", err)
		return nil, err
	}
	previous, err := s.resultRepo.AggregateRange(prevFrom, prevTo, subject, leaderboardCandidateLimit)
	if err != nil {
		log.Printf("[LeaderboardService] Ошибка агрегации предыдущего окна: %v", err)
		return nil, err
	}

	// Позиции предыдущего окна (1-based) для расчета дельты
	prevRanks := make(map[uint]int, len(previous))
	for i, row := range previous {
		prevRanks[row.UserID] = i + 1
	}

	entries := make([]LeaderboardEntry, 0, len(current))
	for i, row := range current {
		entry := LeaderboardEntry{
			UserID:     row.UserID,
			Name:       row.Name,
			Avatar:     row.ProfileImage,
			Score:      row.TotalScore,
			ExamsTaken: row.ExamsTaken,
			Rank:       i + 1,
		}
		if prevRank, ok := prevRanks[row.UserID]; ok {
			entry.RankChange = prevRank - entry.Rank // положительное — подъем
		} else {
			entry.IsNew = true
		}
		entries = append(entries, entry)
	}

	lb := &Leaderboard{
		TopThree: []LeaderboardEntry{},
		Rest:     []LeaderboardEntry{},
	}

	topEnd := len(entries)
	if topEnd > leaderboardTopSize {
		topEnd = leaderboardTopSize
	}
	lb.TopThree = append(lb.TopThree, entries[:topEnd]...)

	if len(entries) > leaderboardTopSize {
		restEnd := len(entries)
		if restEnd > leaderboardRestCutoff {
			restEnd = leaderboardRestCutoff
		}
		lb.Rest = append(lb.Rest, entries[leaderboardTopSize:restEnd]...)
	}

	if viewerID != 0 {
		for i, entry := range entries {
			if entry.UserID != viewerID {
				continue
			}
			lb.UserRank = &ViewerRank{
				Position:   entry.Rank,
				Score:      entry.Score,
				RankChange: entry.RankChange,
				IsNew:      entry.IsNew,
				Percentile: int(math.Round(float64(len(entries)-i) / float64(len(entries)) * 100)),
			}
			break
		}
	}

	return lb, nil
}
