package entity

import (
	"time"
)

// Exam представляет экзамен, создаваемый администратором.
// totalMarks всегда равен totalQuestions: один балл за вопрос, без частичного зачета.
type Exam struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Description    string    `gorm:"size:1000;not null;default:''" json:"description"`
	Subject        string    `gorm:"size:100;not null;index" json:"subject"`
	StudentClass   string    `gorm:"size:20;not null;default:'12'" json:"student_class"`
	Duration       int       `gorm:"not null" json:"duration"` // в минутах
	TotalMarks     int       `gorm:"not null" json:"total_marks"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	IsActive       bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Exam) TableName() string {
	return "exams"
}
