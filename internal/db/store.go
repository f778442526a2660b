package db

import (
	"context"
	"fmt"

	"taskmanager/internal/config"
	"taskmanager/internal/repository"
)

// Stores bundles the repositories of the configured storage driver.
type Stores struct {
	Users repository.UserRepository
	Tasks repository.TaskRepository
	close func(ctx context.Context) error
}

// Open connects to the driver named in cfg, migrates it and builds the repositories.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.DBDriver == config.DriverMongo {
		mdb, err := NewMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := MigrateMongo(ctx, mdb, cfg.ResetDB); err != nil {
			_ = mdb.Client().Disconnect(ctx)
			return nil, err
		}
		return &Stores{
			Users: repository.NewMongoUserRepository(mdb),
			Tasks: repository.NewMongoTaskRepository(mdb),
			close: mdb.Client().Disconnect,
		}, nil
	}

	gormDB, err := OpenSQL(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	if err := MigrateSQL(gormDB, cfg.ResetDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Stores{
		Users: repository.NewUserRepository(gormDB),
		Tasks: repository.NewTaskRepository(gormDB),
		close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}

// Close releases the underlying connection pool.
func (s *Stores) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}
