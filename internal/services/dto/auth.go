package dto

import (
	"time"

	"visacenter_backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
	Name     string `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"omitempty,min=6,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" validate:"required"`
	NewPassword     string `json:"new_password" binding:"required" validate:"required,min=8"`
}

type UserResponse struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Role        models.UserRole `json:"role"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
}

type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
	}
}
