package dto

import (
	"time"

	"github.com/google/uuid"

	"finmemory/internal/models"
)

// CreateUserRequest is the payload for registering a profile
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// UserResponse is the API representation of a user profile
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	MemoryUpdatedAt *time.Time `json:"memory_updated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewUserResponse maps a model to its API representation
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		MemoryUpdatedAt: user.MemoryUpdatedAt,
		CreatedAt:       user.CreatedAt,
	}
}
