// @title        ImmoApp API
// @version      1.0
// @description  使用者帳號、個人資料與管理主控台的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"immoapp/internal/cache"
	"immoapp/internal/config"
	"immoapp/internal/database"
	"immoapp/internal/email"
	"immoapp/internal/logging"
	"immoapp/internal/router"
	"immoapp/internal/storage"
	"immoapp/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "immoapp/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	loadConfig      = config.Load
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newSMTPSender   = func(host string, port int, user, password, from string) (email.Sender, error) {
		return email.NewSMTPSender(host, port, user, password, from)
	}
	newS3Storage = func(ctx context.Context, opts storage.S3Options) (storage.Storage, error) {
		return storage.NewS3Storage(ctx, opts)
	}
	newWorkerPool = worker.NewPool
	startServer   = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc      = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := newPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := newRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return err
	}

	sender, err := newSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	if err != nil {
		return err
	}

	st, err := newS3Storage(context.Background(), storage.S3Options{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
		Bucket:       cfg.S3Bucket,
		PublicURL:    cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}

	wp := newWorkerPool(cfg.WorkerCount)
	defer wp.Stop()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	router.Setup(e, router.Deps{
		DB:      db,
		Cache:   rdb,
		Sender:  sender,
		Storage: st,
		Pool:    wp,
		Log:     logger,
		BaseURL: cfg.BaseURL,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, cfg.ListenAddr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
