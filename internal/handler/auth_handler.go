package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"taskmanager/internal/auth"
	"taskmanager/internal/model"
	"taskmanager/internal/service"
)

// AuthHandler handles signup and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,nopassword"`
	Age      int    `json:"age" validate:"min=0"`
}

// Normalize trims input before validation.
func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Password = strings.TrimSpace(r.Password)
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Normalize()

	if err := c.Validate(&req); err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}

	user, token, err := h.userService.Create(c.Request().Context(), service.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login godoc
// @Summary Log in with email and password
// @Description Issues an additional session token; existing sessions stay valid.
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Logout godoc
// @Summary Revoke the current session token
// @Tags users
// @Security BearerAuth
// @Success 200
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), user, auth.CurrentToken(c)); err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusOK)
}

// LogoutAll godoc
// @Summary Revoke every session token of the current user
// @Tags users
// @Security BearerAuth
// @Success 200
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/logoutAll [post]
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.authService.LogoutAll(c.Request().Context(), user); err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.NoContent(http.StatusOK)
}
