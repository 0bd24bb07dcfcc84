package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdatePasswordRequest struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type CreateUserRequest struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone" validate:"required,phone"`
	Password string      `json:"password" validate:"required,min=6,max=72"`
	Role     models.Role `json:"role" validate:"required,role"`
}

type UpdateUserRequest struct {
	Name  string      `json:"name" validate:"required,max=100"`
	Phone string      `json:"phone" validate:"required,phone"`
	Role  models.Role `json:"role" validate:"omitempty,role"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type UsersEnvelope struct {
	Users []UserResponse `json:"users"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error    bool     `json:"error"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
