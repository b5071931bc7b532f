// File: internal/api/refresh_request.go
package api

// swagger:model api.RefreshRequest
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"3q2-8fXh..."`
}

// swagger:model api.LogoutRequest
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"3q2-8fXh..."`
}
