package store

import (
	"context"
	"fmt"
	"time"

	"immoapp/internal/database"
	"immoapp/internal/model"
)

func CountUsers(ctx context.Context, db database.Querier) (int, error) {
	var n int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsers: %w", err)
	}
	return n, nil
}

func CountUsersByStatus(ctx context.Context, db database.Querier, status model.Status) (int, error) {
	var n int
	if err := db.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE status = $1`, status,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsersByStatus: %w", err)
	}
	return n, nil
}

func CountUsersCreatedSince(ctx context.Context, db database.Querier, since time.Time) (int, error) {
	var n int
	if err := db.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE created_at >= $1`, since,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsersCreatedSince: %w", err)
	}
	return n, nil
}

func CountUsersCreatedBefore(ctx context.Context, db database.Querier, before time.Time) (int, error) {
	var n int
	if err := db.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE created_at < $1`, before,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsersCreatedBefore: %w", err)
	}
	return n, nil
}

// CountActiveUsersCreatedBefore 統計期間起點前建立且仍為 ACTIVE 的使用者（留存）
func CountActiveUsersCreatedBefore(ctx context.Context, db database.Querier, before time.Time) (int, error) {
	var n int
	if err := db.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE created_at < $1 AND status = 'ACTIVE'`, before,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountActiveUsersCreatedBefore: %w", err)
	}
	return n, nil
}

// RoleCount 單一角色的使用者數
type RoleCount struct {
	Role  model.Role `json:"role"`
	Count int        `json:"count"`
}

func CountUsersByRole(ctx context.Context, db database.Querier) ([]RoleCount, error) {
	rows, err := db.Query(ctx,
		`SELECT role, count(*) FROM users GROUP BY role ORDER BY role`,
	)
	if err != nil {
		return nil, fmt.Errorf("CountUsersByRole: %w", err)
	}
	defer rows.Close()

	counts := []RoleCount{}
	for rows.Next() {
		var rc RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count); err != nil {
			return nil, fmt.Errorf("CountUsersByRole: %w", err)
		}
		counts = append(counts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CountUsersByRole: %w", err)
	}
	return counts, nil
}

// ListRecentUsers 回傳最近註冊的使用者
func ListRecentUsers(ctx context.Context, db database.Querier, limit int) ([]model.User, error) {
	rows, err := db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("ListRecentUsers: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecentUsers: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRecentUsers: %w", err)
	}
	return users, nil
}

// DayCount 單日註冊數
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func CountSignupsPerDay(ctx context.Context, db database.Querier, since time.Time) ([]DayCount, error) {
	rows, err := db.Query(ctx,
		`SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, count(*)
		 FROM users
		 WHERE created_at >= $1
		 GROUP BY day ORDER BY day`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("CountSignupsPerDay: %w", err)
	}
	defer rows.Close()

	counts := []DayCount{}
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("CountSignupsPerDay: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CountSignupsPerDay: %w", err)
	}
	return counts, nil
}

// HourCount 單一小時的 session 數，用於尖峰時段
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

func CountSessionsPerHour(ctx context.Context, db database.Querier, since time.Time) ([]HourCount, error) {
	rows, err := db.Query(ctx,
		`SELECT extract(hour FROM expires_at)::int AS hour, count(*)
		 FROM sessions
		 WHERE expires_at >= $1
		 GROUP BY hour ORDER BY hour`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("CountSessionsPerHour: %w", err)
	}
	defer rows.Close()

	counts := []HourCount{}
	for rows.Next() {
		var hc HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, fmt.Errorf("CountSessionsPerHour: %w", err)
		}
		counts = append(counts, hc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CountSessionsPerHour: %w", err)
	}
	return counts, nil
}
