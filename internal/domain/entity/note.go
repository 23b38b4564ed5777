package entity

import (
	"time"
)

// Note представляет учебный материал, загружаемый администратором
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Subject   string    `gorm:"size:100;not null;index" json:"subject"`
	FileURL   string    `gorm:"size:500;not null" json:"file_url"`
	Type      string    `gorm:"size:20;not null;default:'PDF'" json:"type"`
	Downloads int       `gorm:"not null;default:0" json:"downloads"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Note) TableName() string {
	return "notes"
}
