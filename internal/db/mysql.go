package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskmanager/internal/config"
	"taskmanager/internal/model"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	return db, nil
}

// NewPostgres returns a connected GORM DB instance backed by pgx.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// OpenSQL connects to the relational driver named in cfg.
func OpenSQL(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return NewMySQL(cfg.DatabaseURL)
	case config.DriverPostgres:
		return NewPostgres(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.DBDriver)
	}
}

// MigrateSQL creates or updates the users and tasks tables, dropping them
// first when reset is set.
func MigrateSQL(db *gorm.DB, reset bool) error {
	if reset {
		if err := db.Migrator().DropTable(&model.Task{}, &model.User{}); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
