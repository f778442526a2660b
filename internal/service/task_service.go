package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

// NewTask holds task creation input. The owner always comes from the session.
type NewTask struct {
	Description string
	Completed   bool
}

// TaskUpdate lists the mutable task fields. Nil fields are left untouched.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// TaskQuery carries the raw list query parameters.
type TaskQuery struct {
	Completed string
	Limit     string
	Skip      string
	SortBy    string
}

// TaskService handles owner-scoped task operations.
type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, in NewTask) (*model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, q TaskQuery) ([]model.Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, upd TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error)
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new task service.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// ParseTaskQuery converts list query parameters into a filter. Values that
// do not parse are ignored rather than rejected.
func ParseTaskQuery(q TaskQuery) repository.TaskFilter {
	var filter repository.TaskFilter

	if q.Completed != "" {
		completed := q.Completed == "true"
		filter.Completed = &completed
	}
	if n, err := strconv.Atoi(q.Limit); err == nil && n > 0 {
		filter.Limit = n
	}
	if n, err := strconv.Atoi(q.Skip); err == nil && n > 0 {
		filter.Skip = n
	}
	if q.SortBy != "" {
		name, dir, _ := strings.Cut(q.SortBy, ":")
		if field, ok := repository.ParseTaskSortField(name); ok {
			filter.Sort = &repository.TaskSort{Field: field, Desc: dir == "desc"}
		}
	}
	return filter
}

func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, in NewTask) (*model.Task, error) {
	task := &model.Task{
		Description: strings.TrimSpace(in.Description),
		Completed:   in.Completed,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, ownerID uuid.UUID, q TaskQuery) ([]model.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID, ParseTaskQuery(q))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	task, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, translateTaskError(err, "get task")
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, ownerID, id uuid.UUID, upd TaskUpdate) (*model.Task, error) {
	task, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, translateTaskError(err, "get task")
	}

	if upd.Description != nil {
		task.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Completed != nil {
		task.Completed = *upd.Completed
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, translateTaskError(err, "update task")
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id uuid.UUID) (*model.Task, error) {
	task, err := s.repo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, translateTaskError(err, "delete task")
	}
	return task, nil
}

func translateTaskError(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrTaskNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
