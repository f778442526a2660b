package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/service"
)

// UserHandler handles profile and avatar endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateUserRequest lists the profile fields a user may change.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=7,nopassword"`
	Age      *int    `json:"age" validate:"omitnil,min=0"`
}

// Normalize trims input before validation.
func (r *UpdateUserRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Password)
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
}

// Me godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the authenticated user
// @Description Only name, email, password and age may be changed; any other key is rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := decodeUpdate(c, &req, "name", "email", "password", "age"); err != nil {
		return err
	}
	req.Normalize()

	if err := c.Validate(&req); err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}

	updated, err := h.userService.Update(c.Request().Context(), user, service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteMe godoc
// @Summary Delete the authenticated user and all their tasks
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), user); err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar godoc
// @Summary Upload the authenticated user's avatar
// @Description Accepts jpg, jpeg or png up to 1MB; stored as a 250x250 PNG.
// @Tags users
// @Accept multipart/form-data
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		return respondError(c, apperrors.ErrInvalidImage, http.StatusBadRequest)
	}
	file, err := header.Open()
	if err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}
	defer file.Close()

	if err := h.userService.SetAvatar(c.Request().Context(), user, header.Filename, file); err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}
	return c.NoContent(http.StatusOK)
}

// DeleteAvatar godoc
// @Summary Remove the authenticated user's avatar
// @Tags users
// @Security BearerAuth
// @Success 200
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/avatar [delete]
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAvatar(c.Request().Context(), user); err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}
	return c.NoContent(http.StatusOK)
}

// GetAvatar godoc
// @Summary Get a user's avatar
// @Tags users
// @Produce png
// @Param id path string true "User ID"
// @Success 200 {file} binary
// @Failure 404
// @Router /users/{id}/avatar [get]
func (h *UserHandler) GetAvatar(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	data, err := h.userService.GetAvatar(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.Blob(http.StatusOK, "image/png", data)
}
