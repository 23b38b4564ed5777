package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Option представляет один вариант ответа на вопрос
type Option struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	TextHindi string `json:"text_hindi,omitempty"`
}

// OptionArray - пользовательский тип для хранения вариантов ответа в JSONB
type OptionArray []Option

// Scan реализует интерфейс sql.Scanner для OptionArray
// Используется GORM для чтения JSONB данных из базы
func (o *OptionArray) Scan(value interface{}) error {
	if value == nil {
		*o = OptionArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OptionArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для OptionArray
func (o OptionArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Уровни сложности вопроса
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Question представляет вопрос экзамена.
// CorrectOption никогда не сериализуется для клиента, сдающего экзамен.
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	ExamID        uint        `gorm:"not null;index" json:"exam_id"`
	Text          string      `gorm:"size:1000;not null" json:"text"`
	TextHindi     string      `gorm:"size:1000;not null;default:''" json:"text_hindi,omitempty"`
	Options       OptionArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectOption int         `gorm:"not null" json:"-"` // Скрыто от клиента
	Marks         float64     `gorm:"not null;default:1" json:"marks"`
	NegativeMarks float64     `gorm:"not null;default:0" json:"negative_marks"`
	Difficulty    string      `gorm:"size:20;not null;default:'Medium'" json:"difficulty"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect проверяет, является ли выбранный вариант правильным
func (q *Question) IsCorrect(selectedOption int) bool {
	return selectedOption == q.CorrectOption
}

// IsValidOption проверяет, является ли выбранный вариант допустимым
func (q *Question) IsValidOption(selectedOption int) bool {
	for _, opt := range q.Options {
		if opt.ID == selectedOption {
			return true
		}
	}
	return false
}

// OptionsCount возвращает количество вариантов ответа
func (q *Question) OptionsCount() int {
	return len(q.Options)
}
