// File: internal/dto/stats_response.go
package dto

// StatsOverviewResponse 百分比欄位為一位小數字串，分母為零時回傳 "0.0"
// swagger:model dto.StatsOverviewResponse
type StatsOverviewResponse struct {
	TotalUsers     int    `json:"total_users" example:"42"`
	ActiveUsers    int    `json:"active_users" example:"40"`
	InactiveUsers  int    `json:"inactive_users" example:"2"`
	NewToday       int    `json:"new_today" example:"3"`
	NewInPeriod    int    `json:"new_in_period" example:"5"`
	GrowthRate     string `json:"growth_rate" example:"13.5"`
	RetentionRate  string `json:"retention_rate" example:"95.2"`
	ConversionRate string `json:"conversion_rate" example:"88.9"`
	Period         string `json:"period" example:"month"`
}

// swagger:model dto.RoleCountEntry
type RoleCountEntry struct {
	Role  string `json:"role" example:"USER"`
	Count int    `json:"count" example:"40"`
}

// swagger:model dto.DayCountEntry
type DayCountEntry struct {
	Day   string `json:"day" example:"2025-05-01"`
	Count int    `json:"count" example:"3"`
}

// swagger:model dto.HourCountEntry
type HourCountEntry struct {
	Hour  int `json:"hour" example:"14"`
	Count int `json:"count" example:"9"`
}

// swagger:model dto.StatsResponse
type StatsResponse struct {
	Overview      StatsOverviewResponse `json:"overview"`
	UsersByRole   []RoleCountEntry      `json:"users_by_role"`
	SignupsPerDay []DayCountEntry       `json:"signups_per_day"`
	PeakHours     []HourCountEntry      `json:"peak_hours"`
	RecentUsers   []UserResponse        `json:"recent_users"`
}
