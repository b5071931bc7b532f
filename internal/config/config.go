// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the service configuration loaded from environment variables.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`

	RedisAddr     string `env:"REDIS_ADDR,required"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string `env:"JWT_SECRET,required"`

	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	BaseURL    string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	WorkerCount int `env:"WORKER_COUNT" envDefault:"1"`

	// SMTP 郵件寄送設定
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"noreply@immoapp.com"`

	// S3 頭像儲存設定
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`
	S3BaseEndpoint string `env:"S3_BASE_ENDPOINT"`
	S3PublicURL    string `env:"S3_PUBLIC_URL"`
}

// envParse 可於測試覆寫
var envParse = func(cfg *Config) error { return env.Parse(cfg) }

// Load 讀取 .env（若存在）後解析環境變數
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envParse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("invalid WORKER_COUNT: %d", cfg.WorkerCount)
	}
	return cfg, nil
}
