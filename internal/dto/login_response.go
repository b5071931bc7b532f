// File: internal/dto/login_response.go
package dto

import "time"

// swagger:model dto.LoginResponse
type LoginResponse struct {
	AccessToken  string       `json:"access_token" example:"eyJhbGciOi..."`
	RefreshToken string       `json:"refresh_token" example:"3q2-8fXh..."`
	ExpiresAt    time.Time    `json:"expires_at" example:"2025-05-09T15:04:05Z"`
	User         UserResponse `json:"user"`
}

// swagger:model dto.RefreshResponse
type RefreshResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOi..."`
	ExpiresAt   time.Time `json:"expires_at" example:"2025-05-09T15:04:05Z"`
}
