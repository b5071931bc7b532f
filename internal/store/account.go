package store

import (
	"context"
	"fmt"

	"immoapp/internal/database"
	"immoapp/internal/model"
)

func ListAccountsByUserID(ctx context.Context, db database.Querier, userID int) ([]model.Account, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, provider, provider_account_id, created_at
		 FROM accounts WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAccountsByUserID: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListAccountsByUserID: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAccountsByUserID: %w", err)
	}
	return accounts, nil
}

func DeleteAccountsByUserID(ctx context.Context, db database.Querier, userID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM accounts WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteAccountsByUserID: %w", err)
	}
	return nil
}
