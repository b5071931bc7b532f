package store

import (
	"context"
	"fmt"

	"immoapp/internal/database"
	"immoapp/internal/model"
)

func CreateSession(ctx context.Context, db database.Querier, s *model.Session) (*model.Session, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO sessions (user_id, token_hash, expires_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		s.UserID,
		s.TokenHash,
		s.ExpiresAt,
	)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateSession: %w", err)
	}
	return s, nil
}

func ListSessionsByUserID(ctx context.Context, db database.Querier, userID int) ([]model.Session, error) {
	rows, err := db.Query(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at
		 FROM sessions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListSessionsByUserID: %w", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListSessionsByUserID: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSessionsByUserID: %w", err)
	}
	return sessions, nil
}

func DeleteSessionByTokenHash(ctx context.Context, db database.Querier, tokenHash string) error {
	_, err := db.Exec(ctx,
		`DELETE FROM sessions WHERE token_hash = $1`,
		tokenHash,
	)
	if err != nil {
		return fmt.Errorf("DeleteSessionByTokenHash: %w", err)
	}
	return nil
}

func DeleteSessionsByUserID(ctx context.Context, db database.Querier, userID int) error {
	_, err := db.Exec(ctx,
		`DELETE FROM sessions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteSessionsByUserID: %w", err)
	}
	return nil
}
