package entity

// Subject представляет учебный предмет
type Subject struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Description string `gorm:"size:500;not null;default:''" json:"description"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}
