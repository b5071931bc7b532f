package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type emptyRows struct{}

func (emptyRows) Close()                                       {}
func (emptyRows) Err() error                                   { return nil }
func (emptyRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (emptyRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (emptyRows) Next() bool                                   { return false }
func (emptyRows) Scan(dest ...any) error                       { return nil }
func (emptyRows) Values() ([]any, error)                       { return nil, nil }
func (emptyRows) RawValues() [][]byte                          { return nil }
func (emptyRows) Conn() *pgx.Conn                              { return nil }

func TestFakeDB(t *testing.T) {
	ctx := context.Background()

	t.Run("panics without stubs", func(t *testing.T) {
		db := &FakeDB{}
		require.Panics(t, func() { db.Exec(ctx, "UPDATE") })
		require.Panics(t, func() { db.Query(ctx, "SELECT") })
		require.Panics(t, func() { db.QueryRow(ctx, "SELECT") })
		require.Panics(t, func() { db.Ping(ctx) })
		require.Panics(t, func() { db.Begin(ctx) })
		db.Close()
	})

	t.Run("delegates to stubs", func(t *testing.T) {
		var calls []string
		db := &FakeDB{
			ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				calls = append(calls, "exec")
				return pgconn.CommandTag{}, errors.New("constraint")
			},
			QueryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
				calls = append(calls, "query")
				return emptyRows{}, nil
			},
			QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				calls = append(calls, "row")
				return emptyRows{}
			},
			BeginFn: func(ctx context.Context) (pgx.Tx, error) {
				calls = append(calls, "begin")
				return &FakeTx{}, nil
			},
			PingFn:  func(ctx context.Context) error { calls = append(calls, "ping"); return nil },
			CloseFn: func() { calls = append(calls, "close") },
		}

		_, err := db.Exec(ctx, "UPDATE users SET name = $1", "x")
		require.EqualError(t, err, "constraint")

		rows, err := db.Query(ctx, "SELECT 1")
		require.NoError(t, err)
		require.False(t, rows.Next())

		require.NoError(t, db.QueryRow(ctx, "SELECT 1").Scan())

		tx, err := db.Begin(ctx)
		require.NoError(t, err)
		require.NotNil(t, tx)

		require.NoError(t, db.Ping(ctx))
		db.Close()
		require.Equal(t, []string{"exec", "query", "row", "begin", "ping", "close"}, calls)
	})
}

func TestFakeTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit and rollback default to nil", func(t *testing.T) {
		tx := &FakeTx{}
		require.NoError(t, tx.Commit(ctx))
		require.NoError(t, tx.Rollback(ctx))
	})

	t.Run("nested begin returns the same tx", func(t *testing.T) {
		tx := &FakeTx{}
		inner, err := tx.Begin(ctx)
		require.NoError(t, err)
		require.Same(t, tx, inner)
	})

	t.Run("stubbed operations", func(t *testing.T) {
		committed := false
		tx := &FakeTx{
			ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, nil
			},
			QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				return emptyRows{}
			},
			CommitFn:   func(ctx context.Context) error { committed = true; return nil },
			RollbackFn: func(ctx context.Context) error { return errors.New("tx closed") },
		}

		_, err := tx.Exec(ctx, "UPDATE users SET role = $1", "ADMIN")
		require.NoError(t, err)
		require.NoError(t, tx.QueryRow(ctx, "SELECT role FROM users").Scan())
		require.NoError(t, tx.Commit(ctx))
		require.True(t, committed)
		require.EqualError(t, tx.Rollback(ctx), "tx closed")
	})
}
