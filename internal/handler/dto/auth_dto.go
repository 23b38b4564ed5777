package dto

import (
	"github.com/yourusername/examportal-api/internal/domain/entity"
)

// RegisterRequest - запрос на регистрацию нового студента
type RegisterRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6,max=72"`
	StudentClass string `json:"student_class"`
	Stream       string `json:"stream"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest - запрос на смену пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72"`
}

// AuthResponse - ответ на успешную регистрацию или вход
type AuthResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}
