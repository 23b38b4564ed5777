package dto

// UpdateProfileRequest - запрос на обновление профиля студента
type UpdateProfileRequest struct {
	Name         string `json:"name" binding:"max=100"`
	StudentClass string `json:"student_class" binding:"max=20"`
	Stream       string `json:"stream" binding:"max=50"`
	ProfileImage string `json:"profile_image" binding:"max=255"`
	Bio          string `json:"bio" binding:"max=500"`
}

// NoteRequest - запрос на создание или обновление учебного материала
type NoteRequest struct {
	Title   string `json:"title" binding:"max=200"`
	Subject string `json:"subject" binding:"max=100"`
	FileURL string `json:"file_url" binding:"max=500"`
	Type    string `json:"type" binding:"max=20"`
}

// SubjectRequest - запрос на создание предмета
type SubjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
}
