// File: internal/model/session.go
package model

import "time"

// Session 已發行的 refresh session，過期由驗證端控管
type Session struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	TokenHash string    `db:"token_hash" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Account 外部驗證供應商連結帳號
type Account struct {
	ID                int       `db:"id" json:"id"`
	UserID            int       `db:"user_id" json:"user_id"`
	Provider          string    `db:"provider" json:"provider"`
	ProviderAccountID string    `db:"provider_account_id" json:"provider_account_id"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
