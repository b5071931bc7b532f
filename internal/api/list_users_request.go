// File: internal/api/list_users_request.go
package api

// swagger:model api.ListUsersRequest
type ListUsersRequest struct {
	Search string `query:"search" example:"alice"`
	Role   string `query:"role" validate:"omitempty,oneof=USER ADMIN" example:"USER"`
	Status string `query:"status" validate:"omitempty,oneof=ACTIVE INACTIVE" example:"ACTIVE"`
	Page   int    `query:"page" validate:"omitempty,min=1" example:"1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100" example:"20"`
}

// swagger:model api.ListAdminLogsRequest
type ListAdminLogsRequest struct {
	Action string `query:"action" validate:"omitempty,oneof=CREATE UPDATE DELETE LOGIN STATUS_CHANGE ROLE_CHANGE" example:"UPDATE"`
	Entity string `query:"entity" validate:"omitempty,oneof=USER PROPERTY SETTINGS" example:"USER"`
	Page   int    `query:"page" validate:"omitempty,min=1" example:"1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100" example:"20"`
}

// swagger:model api.StatsRequest
type StatsRequest struct {
	Period string `query:"period" validate:"omitempty,oneof=day week month year" example:"month"`
}
