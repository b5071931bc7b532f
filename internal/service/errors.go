package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// 領域錯誤，由 handler 對應至 HTTP 狀態碼
var (
	ErrUserNotFound       = errors.New("user not found")                      // 404
	ErrEmailTaken         = errors.New("email already in use")                // 409
	ErrLastAdmin          = errors.New("cannot demote the last administrator") // 409
	ErrInvalidCredentials = errors.New("invalid credentials")                 // 401
	ErrAccountInactive    = errors.New("account is inactive")                 // 403
	ErrTokenInvalid       = errors.New("invalid verification token")          // 400
	ErrTokenExpired       = errors.New("verification token expired")          // 400
	ErrNoPendingEmail     = errors.New("no pending email change")             // 400
)

// IsUniqueViolation 判斷是否為 PostgreSQL unique constraint 錯誤 (23505)
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
