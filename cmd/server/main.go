package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskmanager/docs"
	"taskmanager/internal/auth"
	"taskmanager/internal/cache"
	"taskmanager/internal/config"
	"taskmanager/internal/db"
	"taskmanager/internal/handler"
	"taskmanager/internal/logging"
	"taskmanager/internal/mail"
	"taskmanager/internal/router"
	"taskmanager/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	mailQueueSize   = 100
)

// @title Task Manager API
// @version 1.0
// @description Task manager API with user accounts, bearer sessions, owner-scoped tasks and avatars.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("database init", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true, existing users and tasks were dropped")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, avatar cache degraded", "addr", cfg.RedisAddr, "error", err)
	}

	var sender mail.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, emails will only be logged")
		sender = mail.NewLogSender(logger)
	}
	notifier := mail.NewNotifier(sender, logger, mailQueueSize)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	tokenService := auth.NewTokenService(jwtService, stores.Users)

	// Initialize services
	authService := service.NewAuthService(stores.Users, tokenService)
	userService := service.NewUserService(stores.Users, stores.Tasks, tokenService, notifier, cacheClient, cfg.AvatarCacheTTL)
	taskService := service.NewTaskService(stores.Tasks)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	router.Register(
		e,
		logger,
		tokenService,
		handler.NewAuthHandler(authService, userService),
		handler.NewUserHandler(userService),
		handler.NewTaskHandler(taskService),
	)

	swaggerHost := "localhost:" + cfg.ServerPort
	if cfg.SwaggerHost != "" {
		swaggerHost = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	docs.SwaggerInfo.Host = swaggerHost
	logger.Info("swagger documentation available", "url", "http://"+swaggerHost+"/swagger/index.html")

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	notifier.Close()
	if err := cacheClient.Close(); err != nil {
		logger.Warn("close redis", "error", err)
	}
	if err := stores.Close(shutdownCtx); err != nil {
		logger.Warn("close database", "error", err)
	}
}
