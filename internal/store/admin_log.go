package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"immoapp/internal/database"
	"immoapp/internal/model"
)

func CreateAdminLog(ctx context.Context, db database.Querier, l *model.AdminLog) (*model.AdminLog, error) {
	details, err := json.Marshal(l.Details)
	if err != nil {
		return nil, fmt.Errorf("CreateAdminLog: %w", err)
	}
	row := db.QueryRow(ctx,
		`INSERT INTO admin_logs (action, entity, entity_id, details, admin_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		l.Action,
		l.Entity,
		l.EntityID,
		details,
		l.AdminID,
	)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateAdminLog: %w", err)
	}
	return l, nil
}

// ListAdminLogsFilter 稽核紀錄列表的查詢條件
type ListAdminLogsFilter struct {
	Action *model.LogAction
	Entity *model.LogEntity
	Page   int
	Limit  int
}

// ListAdminLogs 回傳依建立時間新到舊排序的分頁稽核紀錄與總筆數，
// 並 join 出操作管理員的名稱與 Email
func ListAdminLogs(ctx context.Context, db database.Querier, f ListAdminLogsFilter) ([]model.AdminLog, int, error) {
	where := []string{}
	args := []any{}

	if f.Action != nil {
		args = append(args, *f.Action)
		where = append(where, fmt.Sprintf("l.action = $%d", len(args)))
	}
	if f.Entity != nil {
		args = append(args, *f.Entity)
		where = append(where, fmt.Sprintf("l.entity = $%d", len(args)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM admin_logs l`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListAdminLogs: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := db.Query(ctx,
		`SELECT l.id, l.action, l.entity, l.entity_id, l.details, l.admin_id, l.created_at,
		        u.name, u.email
		 FROM admin_logs l
		 LEFT JOIN users u ON u.id = l.admin_id`+cond+
			fmt.Sprintf(` ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListAdminLogs: %w", err)
	}
	defer rows.Close()

	logs := []model.AdminLog{}
	for rows.Next() {
		var l model.AdminLog
		var details []byte
		if err := rows.Scan(&l.ID, &l.Action, &l.Entity, &l.EntityID, &details, &l.AdminID, &l.CreatedAt, &l.AdminName, &l.AdminEmail); err != nil {
			return nil, 0, fmt.Errorf("ListAdminLogs: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &l.Details); err != nil {
				return nil, 0, fmt.Errorf("ListAdminLogs: %w", err)
			}
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListAdminLogs: %w", err)
	}
	return logs, total, nil
}
