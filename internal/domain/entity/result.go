package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SkippedOption - значение selectedOption для пропущенного вопроса
const SkippedOption = -1

// ResultAnswer представляет один зафиксированный ответ в результате
type ResultAnswer struct {
	QuestionID     uint `json:"question_id"`
	SelectedOption int  `json:"selected_option"` // -1 = вопрос пропущен
}

// AnswerArray - пользовательский тип для хранения ответов в JSONB
type AnswerArray []ResultAnswer

// Scan реализует интерфейс sql.Scanner для AnswerArray
func (a *AnswerArray) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AnswerArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AnswerArray
func (a AnswerArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Result представляет итоговый результат одной попытки сдачи экзамена.
// Инвариант: ровно один Result на пару (UserID, ExamID), обеспечивается
// уникальным индексом idx_user_exam — гонка двух одновременных submit
// закрывается на уровне хранилища, а не приложения.
type Result struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index;uniqueIndex:idx_user_exam" json:"user_id"`
	ExamID         uint        `gorm:"not null;index;uniqueIndex:idx_user_exam" json:"exam_id"`
	Score          float64     `gorm:"not null;default:0" json:"score"`
	TotalMarks     int         `gorm:"not null;default:0" json:"total_marks"`
	CorrectAnswers int         `gorm:"not null;default:0" json:"correct_answers"`
	WrongAnswers   int         `gorm:"not null;default:0" json:"wrong_answers"`
	SkippedAnswers int         `gorm:"not null;default:0" json:"skipped_answers"`
	Accuracy       float64     `gorm:"not null;default:0" json:"accuracy"` // проценты, 1 знак после запятой
	Answers        AnswerArray `gorm:"type:jsonb;not null" json:"answers"`
	SubmittedAt    time.Time   `gorm:"not null;index" json:"submitted_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Result) TableName() string {
	return "results"
}

// Percentage возвращает результат в процентах от максимума
func (r *Result) Percentage() float64 {
	if r.TotalMarks == 0 {
		return 0
	}
	return r.Score / float64(r.TotalMarks) * 100
}
