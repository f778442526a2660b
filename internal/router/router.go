package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskmanager/internal/auth"
	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/handler"
	"taskmanager/internal/logging"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	logger *slog.Logger,
	resolver auth.TokenResolver,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireAuth := auth.Middleware(resolver)

	// Public routes
	users := e.Group("/users")
	users.POST("", authHandler.Signup)
	users.POST("/login", authHandler.Login)
	users.GET("/:id/avatar", userHandler.GetAvatar)

	// Session routes
	users.POST("/logout", authHandler.Logout, requireAuth)
	users.POST("/logoutAll", authHandler.LogoutAll, requireAuth)

	// Profile routes
	me := users.Group("/me", requireAuth)
	me.GET("", userHandler.Me)
	me.PATCH("", userHandler.UpdateMe)
	me.DELETE("", userHandler.DeleteMe)
	me.POST("/avatar", userHandler.UploadAvatar)
	me.DELETE("/avatar", userHandler.DeleteAvatar)

	// Task routes
	tasks := e.Group("/tasks", requireAuth)
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)
}

// CustomValidator wraps validator for Echo and reports failures as
// field-keyed validation errors.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that names fields by their json tag and
// knows the "nopassword" rule.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nopassword", func(fl validator.FieldLevel) bool {
		return !strings.Contains(strings.ToLower(fl.Field().String()), "password")
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &apperrors.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "nopassword":
		return `cannot contain "password"`
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Param() == "0" {
			return "must be a positive number"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
