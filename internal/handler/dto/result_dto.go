package dto

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// ResultResponse - результат сдачи с рангом и перцентилем
type ResultResponse struct {
	*entity.Result
	Rank       int `json:"rank,omitempty"`
	Percentile int `json:"percentile,omitempty"`
}

// NewResultResponse собирает ответ из результата и его позиции
func NewResultResponse(result *entity.Result, rank, percentile int) *ResultResponse {
	return &ResultResponse{
		Result:     result,
		Rank:       rank,
		Percentile: percentile,
	}
}

// HistoryItem - один результат в истории студента вместе с экзаменом
type HistoryItem struct {
	Result *entity.Result `json:"result"`
	Exam   *entity.Exam   `json:"exam,omitempty"`
}

// NewHistory собирает историю студента, подставляя экзамены к результатам
func NewHistory(results []entity.Result, examsByID map[uint]entity.Exam) []HistoryItem {
	items := make([]HistoryItem, 0, len(results))
	for i := range results {
		item := HistoryItem{Result: &results[i]}
		if exam, ok := examsByID[results[i].ExamID]; ok {
			e := exam
			item.Exam = &e
		}
		items = append(items, item)
	}
	return items
}
