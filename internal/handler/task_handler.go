package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"taskmanager/internal/service"
)

// TaskHandler handles task endpoints. Every operation is scoped to the
// authenticated user.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request. Any owner in the body is ignored.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

// UpdateTaskRequest lists the task fields that may be changed.
type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitnil,min=1"`
	Completed   *bool   `json:"completed"`
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidBody
	}
	req.Description = strings.TrimSpace(req.Description)

	if err := c.Validate(&req); err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}

	task, err := h.taskService.Create(c.Request().Context(), user.ID, service.NewTask{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusCreated, task)
}

// List godoc
// @Summary List the authenticated user's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param completed query string false "Filter by completion (true/false)"
// @Param limit query int false "Maximum number of tasks"
// @Param skip query int false "Number of tasks to skip"
// @Param sortBy query string false "Sort as field:direction, e.g. createdAt:desc"
// @Success 200 {array} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.List(c.Request().Context(), user.ID, service.TaskQuery{
		Completed: c.QueryParam("completed"),
		Limit:     c.QueryParam("limit"),
		Skip:      c.QueryParam("skip"),
		SortBy:    c.QueryParam("sortBy"),
	})
	if err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get godoc
// @Summary Get one of the authenticated user's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	task, err := h.taskService.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary Update one of the authenticated user's tasks
// @Description Only description and completed may be changed; any other key is rejected.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to change"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := decodeUpdate(c, &req, "description", "completed"); err != nil {
		return err
	}
	trimPtr(req.Description)

	if err := c.Validate(&req); err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	task, err := h.taskService.Update(c.Request().Context(), user.ID, id, service.TaskUpdate{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return respondError(c, err, http.StatusBadRequest)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete one of the authenticated user's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}

	task, err := h.taskService.Delete(c.Request().Context(), user.ID, id)
	if err != nil {
		return respondError(c, err, http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, task)
}
