// File: internal/api/admin_update_user_request.go
package api

// AdminUpdateUserRequest 的兩個欄位皆可省略；省略表示該欄位不變
// swagger:model api.AdminUpdateUserRequest
type AdminUpdateUserRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN" example:"ADMIN"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE" example:"ACTIVE"`
}
