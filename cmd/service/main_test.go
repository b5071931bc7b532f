package main

import (
	"context"
	"errors"
	"os"
	"testing"

	"immoapp/internal/cache"
	"immoapp/internal/config"
	"immoapp/internal/database"
	"immoapp/internal/email"
	"immoapp/internal/storage"
	"immoapp/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func restore() {
	loadConfig = config.Load
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newSMTPSender = func(host string, port int, user, password, from string) (email.Sender, error) {
		return email.NewSMTPSender(host, port, user, password, from)
	}
	newS3Storage = func(ctx context.Context, opts storage.S3Options) (storage.Storage, error) {
		return storage.NewS3Storage(ctx, opts)
	}
	newWorkerPool = worker.NewPool
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc = os.Exit
}

func stubAll() {
	loadConfig = func() (*config.Config, error) {
		return &config.Config{
			DatabaseURL: "postgres://localhost/immoapp",
			RedisAddr:   "localhost:6379",
			JWTSecret:   "secret",
			ListenAddr:  ":0",
			BaseURL:     "http://localhost:8080",
			WorkerCount: 1,
		}, nil
	}
	newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
		return &database.FakeDB{}, nil
	}
	newRedisClient = func(addr, password string, db int) (cache.Cache, error) {
		return &cache.FakeCache{}, nil
	}
	runMigrationsFn = func(dbURL string) error { return nil }
	newSMTPSender = func(host string, port int, user, password, from string) (email.Sender, error) {
		return &email.FakeSender{}, nil
	}
	newS3Storage = func(ctx context.Context, opts storage.S3Options) (storage.Storage, error) {
		return &storage.FakeStorage{}, nil
	}
	startServer = func(e *echo.Echo, addr string) error { return nil }
}

func TestRun(t *testing.T) {
	t.Run("wires dependencies and starts server", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		started := ""
		startServer = func(e *echo.Echo, addr string) error {
			started = addr
			require.NotNil(t, e.Validator)
			require.NotEmpty(t, e.Routes())
			return nil
		}
		require.NoError(t, run())
		require.Equal(t, ":0", started)
	})

	t.Run("config error", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		loadConfig = func() (*config.Config, error) { return nil, errors.New("missing env") }
		require.Error(t, run())
	})

	t.Run("database error", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		newPgxPool = func(ctx context.Context, url string) (database.DB, error) {
			return nil, errors.New("connect refused")
		}
		require.Error(t, run())
	})

	t.Run("redis error", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		newRedisClient = func(addr, password string, db int) (cache.Cache, error) {
			return nil, errors.New("connect refused")
		}
		require.Error(t, run())
	})

	t.Run("migration error", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		runMigrationsFn = func(dbURL string) error { return errors.New("dirty version") }
		require.Error(t, run())
	})

	t.Run("smtp error", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		newSMTPSender = func(host string, port int, user, password, from string) (email.Sender, error) {
			return nil, errors.New("bad host")
		}
		require.Error(t, run())
	})

	t.Run("storage error", func(t *testing.T) {
		t.Cleanup(restore)
		stubAll()
		newS3Storage = func(ctx context.Context, opts storage.S3Options) (storage.Storage, error) {
			return nil, errors.New("no credentials")
		}
		require.Error(t, run())
	})
}

func TestMainExitsOnError(t *testing.T) {
	t.Cleanup(restore)
	stubAll()
	loadConfig = func() (*config.Config, error) { return nil, errors.New("missing env") }
	code := 0
	exitFunc = func(c int) { code = c }
	main()
	require.Equal(t, 1, code)
}
