// File: internal/service/admin.go
package service

import (
	"context"
	"errors"
	"fmt"

	"immoapp/internal/database"
	"immoapp/internal/model"
	"immoapp/internal/store"

	"github.com/jackc/pgx/v5"
)

// 可於測試覆寫
var (
	getUserByID          = store.GetUserByID
	countAdminsForUpdate = store.CountAdminsForUpdate
	updateUserRoleStatus = store.UpdateUserRoleStatus
	deleteSessionsByUser = store.DeleteSessionsByUserID
	deleteAccountsByUser = store.DeleteAccountsByUserID
	deleteUserRow        = store.DeleteUser
)

// UpdateUserRoleStatus 套用管理端 {role, status} 變更集。
// 不變量檢查與寫入在同一交易內：
// 先鎖定並計數管理員資料列，再執行單一 UPDATE，
// 避免兩個併發降級都通過檢查後讓管理員歸零。
// 回傳變更前與變更後的使用者資料。
func UpdateUserRoleStatus(ctx context.Context, db database.DB, targetID int, role *model.Role, status *model.Status) (previous, updated *model.User, err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("UpdateUserRoleStatus: %w", err)
	}
	defer tx.Rollback(ctx)

	previous, err = getUserByID(ctx, tx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	// 最後一位管理員不可降級，無論操作者是誰
	if role != nil && *role == model.RoleUser && previous.Role == model.RoleAdmin {
		n, err := countAdminsForUpdate(ctx, tx)
		if err != nil {
			return nil, nil, err
		}
		if n <= 1 {
			return nil, nil, ErrLastAdmin
		}
	}

	updated, err = updateUserRoleStatus(ctx, tx, targetID, role, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("UpdateUserRoleStatus: %w", err)
	}
	return previous, updated, nil
}

// DeleteUserCascade 在單一交易內刪除使用者與其 session、外部帳號資料列，
// 全部成功才提交，避免殘留指向已刪除使用者的資料。
// 回傳被刪除的使用者資料供稽核使用。
func DeleteUserCascade(ctx context.Context, db database.DB, targetID int) (*model.User, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("DeleteUserCascade: %w", err)
	}
	defer tx.Rollback(ctx)

	target, err := getUserByID(ctx, tx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := deleteSessionsByUser(ctx, tx, targetID); err != nil {
		return nil, err
	}
	if err := deleteAccountsByUser(ctx, tx, targetID); err != nil {
		return nil, err
	}
	if err := deleteUserRow(ctx, tx, targetID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("DeleteUserCascade: %w", err)
	}
	return target, nil
}
