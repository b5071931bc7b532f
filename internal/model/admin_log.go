// File: internal/model/admin_log.go
package model

import "time"

// LogAction 管理操作類型
type LogAction string

const (
	LogActionCreate       LogAction = "CREATE"
	LogActionUpdate       LogAction = "UPDATE"
	LogActionDelete       LogAction = "DELETE"
	LogActionLogin        LogAction = "LOGIN"
	LogActionStatusChange LogAction = "STATUS_CHANGE"
	LogActionRoleChange   LogAction = "ROLE_CHANGE"
)

// LogEntity 管理操作目標類型
type LogEntity string

const (
	LogEntityUser     LogEntity = "USER"
	LogEntityProperty LogEntity = "PROPERTY"
	LogEntitySettings LogEntity = "SETTINGS"
)

// UserSnapshot 記錄變更前後的欄位快照
type UserSnapshot struct {
	Role   Role   `json:"role,omitempty"`
	Status Status `json:"status,omitempty"`
	Email  string `json:"email,omitempty"`
}

// LogDetails admin_logs.details JSONB 負載
type LogDetails struct {
	Previous *UserSnapshot `json:"previous,omitempty"`
	New      *UserSnapshot `json:"new,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// AdminLog 管理操作稽核紀錄，建立後不再修改
type AdminLog struct {
	ID        int        `db:"id" json:"id"`
	Action    LogAction  `db:"action" json:"action"`
	Entity    LogEntity  `db:"entity" json:"entity"`
	EntityID  string     `db:"entity_id" json:"entity_id"`
	Details   LogDetails `db:"details" json:"details"`
	AdminID   int        `db:"admin_id" json:"admin_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`

	// 由查詢 join 帶出的管理員資訊，非資料表欄位
	AdminName  *string `db:"-" json:"admin_name,omitempty"`
	AdminEmail *string `db:"-" json:"admin_email,omitempty"`
}
