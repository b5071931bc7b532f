// File: internal/service/audit.go
package service

import (
	"context"

	"immoapp/internal/database"
	"immoapp/internal/logging"
	"immoapp/internal/model"
	"immoapp/internal/store"
)

// 可於測試覆寫
var createAdminLog = store.CreateAdminLog

// RecordAdminLog 盡力寫入一筆稽核紀錄。
// 寫入失敗僅記錄日誌，不回傳錯誤；
// 主要操作的成敗只由操作本身決定。
func RecordAdminLog(ctx context.Context, db database.Querier, log logging.Logger, entry *model.AdminLog) {
	if _, err := createAdminLog(ctx, db, entry); err != nil {
		log.Error(ctx, "admin log write failed",
			"action", entry.Action,
			"entity", entry.Entity,
			"entity_id", entry.EntityID,
			"admin_id", entry.AdminID,
			"error", err,
		)
	}
}
