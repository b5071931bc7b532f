// File: internal/dto/admin_log_response.go
package dto

import (
	"time"

	"immoapp/internal/model"
)

// swagger:model dto.AdminLogResponse
type AdminLogResponse struct {
	ID         int              `json:"id" example:"7"`
	AdminID    int              `json:"admin_id" example:"1"`
	AdminName  *string          `json:"admin_name,omitempty" example:"Alice"`
	AdminEmail *string          `json:"admin_email,omitempty" example:"alice@example.com"`
	Action     string           `json:"action" example:"UPDATE"`
	Entity     string           `json:"entity" example:"USER"`
	EntityID   string           `json:"entity_id" example:"42"`
	Details    model.LogDetails `json:"details"`
	CreatedAt  time.Time        `json:"created_at" example:"2025-05-01T15:04:05Z"`
}

func NewAdminLogResponse(log *model.AdminLog) AdminLogResponse {
	return AdminLogResponse{
		ID:         log.ID,
		AdminID:    log.AdminID,
		AdminName:  log.AdminName,
		AdminEmail: log.AdminEmail,
		Action:     string(log.Action),
		Entity:     string(log.Entity),
		EntityID:   log.EntityID,
		Details:    log.Details,
		CreatedAt:  log.CreatedAt,
	}
}

// swagger:model dto.AdminLogListResponse
type AdminLogListResponse struct {
	Logs  []AdminLogResponse `json:"logs"`
	Total int                `json:"total" example:"128"`
	Page  int                `json:"page" example:"1"`
	Limit int                `json:"limit" example:"20"`
}
