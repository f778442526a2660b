package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Storage drivers understood by the db package.
const (
	DriverMongo    = "mongodb"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string        `validate:"required,numeric"`
	DBDriver       string        `validate:"required,oneof=mongodb mysql postgres"`
	DatabaseURL    string        `validate:"required"`
	MongoDatabase  string        `validate:"required_if=DBDriver mongodb"`
	ResetDB        bool
	JWTSecret      string        `validate:"required"`
	TokenTTL       time.Duration `validate:"gte=0"`
	SendGridAPIKey string
	MailFrom       string        `validate:"required,email"`
	RedisAddr      string
	RedisPass      string
	RedisDB        int           `validate:"gte=0"`
	AvatarCacheTTL time.Duration `validate:"gte=0"`
	LogLevel       string        `validate:"oneof=debug info warn error"`
	LogFormat      string        `validate:"oneof=json text"`
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("DATABASE_URL", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGODB_DATABASE", "task-manager-api")
	v.SetDefault("RESET_DB", false)
	v.SetDefault("TOKEN_TTL", "0s")
	v.SetDefault("MAIL_FROM", "noreply@taskmanager.local")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AVATAR_CACHE_TTL", "10m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		ServerPort:     v.GetString("PORT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		MongoDatabase:  v.GetString("MONGODB_DATABASE"),
		ResetDB:        v.GetBool("RESET_DB"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		MailFrom:       v.GetString("MAIL_FROM"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPass:      v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		AvatarCacheTTL: v.GetDuration("AVATAR_CACHE_TTL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		SwaggerHost:    v.GetString("SWAGGER_HOST"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
