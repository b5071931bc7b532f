// File: internal/api/verify_request.go
package api

// swagger:model api.VerifyRequest
type VerifyRequest struct {
	Email string `query:"email" validate:"required,email" example:"alice@example.com"`
	Token string `query:"token" validate:"required" example:"a1b2c3d4e5f60718"`
}

// swagger:model api.ResendVerificationRequest
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email" example:"alice@example.com"`
}
