// File: internal/model/user.go
package model

import "time"

// Role 使用者角色
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid 檢查角色值是否合法
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Status 帳號狀態
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Valid 檢查狀態值是否合法
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User 使用者帳號
// PasswordHash 為 nil 代表外部驗證帳號（無本地密碼）
type User struct {
	ID                  int        `db:"id" json:"id"`
	Name                *string    `db:"name" json:"name"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        *string    `db:"password_hash" json:"-"`
	Role                Role       `db:"role" json:"role"`
	Status              Status     `db:"status" json:"status"`
	AvatarURL           *string    `db:"avatar_url" json:"avatar_url"`
	EmailVerified       bool       `db:"email_verified" json:"email_verified"`
	PendingEmail        *string    `db:"pending_email" json:"-"`
	VerificationToken   *string    `db:"verification_token" json:"-"`
	VerificationExpires *time.Time `db:"verification_expires" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}
