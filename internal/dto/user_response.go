// File: internal/dto/user_response.go
package dto

import (
	"time"

	"immoapp/internal/model"
)

// swagger:model dto.UserResponse
type UserResponse struct {
	ID            int       `json:"id" example:"1"`
	Name          *string   `json:"name" example:"Alice"`
	Email         string    `json:"email" example:"alice@example.com"`
	Role          string    `json:"role" example:"USER"`
	Status        string    `json:"status" example:"ACTIVE"`
	EmailVerified bool      `json:"email_verified" example:"true"`
	AvatarURL     *string   `json:"avatar_url,omitempty" example:"https://cdn.example.com/avatars/0c9b7a4e"`
	PendingEmail  *string   `json:"pending_email,omitempty" example:"alice.new@example.com"`
	CreatedAt     time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          string(user.Role),
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		AvatarURL:     user.AvatarURL,
		PendingEmail:  user.PendingEmail,
		CreatedAt:     user.CreatedAt,
	}
}

// swagger:model dto.UserListResponse
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total" example:"42"`
	Page  int            `json:"page" example:"1"`
	Limit int            `json:"limit" example:"20"`
}
