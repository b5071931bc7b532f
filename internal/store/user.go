package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"immoapp/internal/database"
	"immoapp/internal/model"
)

const userColumns = `id, name, email, password_hash, role, status, avatar_url,
	 email_verified, pending_email, verification_token, verification_expires, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.AvatarURL,
		&u.EmailVerified,
		&u.PendingEmail,
		&u.VerificationToken,
		&u.VerificationExpires,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users WHERE id = $1`,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users WHERE email = $1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, status, verification_token, verification_expires)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.Status,
		u.VerificationToken,
		u.VerificationExpires,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func UpdateUserName(ctx context.Context, db database.Querier, userID int, name string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET name = $1 WHERE id = $2`,
		name,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserName: %w", err)
	}
	return nil
}

func UpdateUserPassword(ctx context.Context, db database.Querier, userID int, passwordHash string) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1
		 WHERE id = $2`,
		passwordHash,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserPassword: %w", err)
	}
	return nil
}

func UpdateUserAvatar(ctx context.Context, db database.Querier, userID int, avatarURL *string) error {
	_, err := db.Exec(ctx,
		`UPDATE users SET avatar_url = $1 WHERE id = $2`,
		avatarURL,
		userID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUserAvatar: %w", err)
	}
	return nil
}

// SetPendingEmail 記錄待驗證的新 Email 與驗證令牌
func SetPendingEmail(ctx context.Context, db database.Querier, userID int, pendingEmail, token string, expires time.Time) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET pending_email = $1, verification_token = $2, verification_expires = $3
		 WHERE id = $4`,
		pendingEmail,
		token,
		expires,
		userID,
	)
	if err != nil {
		return fmt.Errorf("SetPendingEmail: %w", err)
	}
	return nil
}

// SetVerificationToken 換發註冊驗證令牌
func SetVerificationToken(ctx context.Context, db database.Querier, userID int, token string, expires time.Time) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET verification_token = $1, verification_expires = $2
		 WHERE id = $3`,
		token,
		expires,
		userID,
	)
	if err != nil {
		return fmt.Errorf("SetVerificationToken: %w", err)
	}
	return nil
}

// MarkEmailVerified 完成註冊驗證並清除令牌
func MarkEmailVerified(ctx context.Context, db database.Querier, userID int) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET email_verified = TRUE, verification_token = NULL, verification_expires = NULL
		 WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("MarkEmailVerified: %w", err)
	}
	return nil
}

// CommitEmailChange 以 pending_email 取代 email 並清除令牌
func CommitEmailChange(ctx context.Context, db database.Querier, userID int) error {
	_, err := db.Exec(ctx,
		`UPDATE users
		 SET email = pending_email, pending_email = NULL,
		     verification_token = NULL, verification_expires = NULL
		 WHERE id = $1 AND pending_email IS NOT NULL`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("CommitEmailChange: %w", err)
	}
	return nil
}

// UpdateUserRoleStatus 以單一 UPDATE 套用 {role, status} 變更集，
// nil 欄位保持原值，回傳更新後資料列
func UpdateUserRoleStatus(ctx context.Context, db database.Querier, userID int, role *model.Role, status *model.Status) (*model.User, error) {
	row := db.QueryRow(ctx,
		`UPDATE users
		 SET role = COALESCE($1, role), status = COALESCE($2, status)
		 WHERE id = $3
		 RETURNING `+userColumns,
		role,
		status,
		userID,
	)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("UpdateUserRoleStatus: %w", err)
	}
	return u, nil
}

// CountAdminsForUpdate 計算管理員數量並鎖定相關資料列，
// 僅在交易內呼叫才有鎖定效果
func CountAdminsForUpdate(ctx context.Context, db database.Querier) (int, error) {
	row := db.QueryRow(ctx,
		`SELECT count(*) FROM (
		   SELECT id FROM users WHERE role = 'ADMIN' FOR UPDATE
		 ) AS admins`,
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("CountAdminsForUpdate: %w", err)
	}
	return n, nil
}

func DeleteUser(ctx context.Context, db database.Querier, userID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	return nil
}

// ListUsersFilter 管理端使用者列表的查詢條件
type ListUsersFilter struct {
	Search string
	Role   *model.Role
	Status *model.Status
	Page   int
	Limit  int
}

// ListUsers 依條件回傳分頁使用者列表與總筆數
func ListUsers(ctx context.Context, db database.Querier, f ListUsersFilter) ([]model.User, int, error) {
	where := []string{}
	args := []any{}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := fmt.Sprint(len(args))
		where = append(where, "(email ILIKE $"+n+" OR name ILIKE $"+n+")")
	}
	if f.Role != nil {
		args = append(args, *f.Role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM users`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+` FROM users`+cond+
			fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	return users, total, nil
}
