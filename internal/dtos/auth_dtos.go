package dtos

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	// RFC 3339 date, e.g. "2001-04-17".
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	// "CLIENT" or "EMPLOYEE"; admin accounts are seeded.
	Role string `json:"role" validate:"required,oneof=CLIENT EMPLOYEE"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	// Omitting the field clears the stored number.
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type UserDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	BirthDate   time.Time `json:"birth_date"`
}

type RegisterResponse struct {
	User UserDTO `json:"user"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}
