package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/logging"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

type seedUser struct {
	Name     string
	Email    string
	Password string
	Tasks    []seedTask
}

type seedTask struct {
	Description string
	Completed   bool
}

var fixtures = []seedUser{
	{
		Name:     "Mike",
		Email:    "mike@example.com",
		Password: "56what!!",
		Tasks: []seedTask{
			{Description: "First task", Completed: false},
			{Description: "Second task", Completed: true},
		},
	},
	{
		Name:     "Jess",
		Email:    "jess@example.com",
		Password: "myhouse099@@",
		Tasks: []seedTask{
			{Description: "Third task", Completed: true},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting seed", "driver", cfg.DBDriver)

	ctx := context.Background()
	stores, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("database init", "error", err)
		os.Exit(1)
	}
	defer stores.Close(ctx)

	created, skipped, err := seed(ctx, stores.Users, stores.Tasks, fixtures)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed completed", "users_created", created, "users_skipped", skipped)
}

// seed creates fixture users that do not exist yet, together with their
// tasks. Existing users are left untouched.
func seed(ctx context.Context, users repository.UserRepository, tasks repository.TaskRepository, fixtures []seedUser) (created int, skipped int, err error) {
	for _, f := range fixtures {
		_, err := users.FindByEmail(ctx, f.Email)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return created, skipped, fmt.Errorf("check user %s: %w", f.Email, err)
		}

		hash, err := service.HashPassword(f.Password)
		if err != nil {
			return created, skipped, err
		}
		user := &model.User{Name: f.Name, Email: f.Email, PasswordHash: hash, Tokens: []string{}}
		if err := users.Create(ctx, user); err != nil {
			return created, skipped, fmt.Errorf("create user %s: %w", f.Email, err)
		}

		for _, t := range f.Tasks {
			task := &model.Task{Description: t.Description, Completed: t.Completed, OwnerID: user.ID}
			if err := tasks.Create(ctx, task); err != nil {
				return created, skipped, fmt.Errorf("create task %q: %w", t.Description, err)
			}
		}
		created++
	}
	return created, skipped, nil
}
