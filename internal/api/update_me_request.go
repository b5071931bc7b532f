// File: internal/api/update_me_request.go
package api

// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" example:"Alice"`
}

// swagger:model api.UpdateMyEmailRequest
type UpdateMyEmailRequest struct {
	Email string `json:"email" validate:"required,email" example:"alice.new@example.com"`
}

// swagger:model api.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required" example:"Secret123!"`
	NewPassword string `json:"new_password" validate:"required,min=8" example:"Secret456!"`
}

// DeleteMeRequest 刪除帳號需再次確認目前密碼
// swagger:model api.DeleteMeRequest
type DeleteMeRequest struct {
	Password string `json:"password" validate:"required" example:"Secret123!"`
}
