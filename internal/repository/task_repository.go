package repository

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanager/internal/model"
)

// TaskRepository defines task persistence operations. Every read and write of
// a single task is scoped by owner.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

var taskSortColumns = map[TaskSortField]string{
	SortByCreatedAt:   "created_at",
	SortByUpdatedAt:   "updated_at",
	SortByDescription: "description",
	SortByCompleted:   "completed",
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// Create creates a new task.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return translateGormError(r.db.WithContext(ctx).Create(task).Error)
}

// Update saves every column of an existing task.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return translateGormError(r.db.WithContext(ctx).Save(task).Error)
}

// FindByIDAndOwner finds a task by ID that belongs to ownerID.
func (r *taskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// DeleteByIDAndOwner removes a task and returns it as it was before deletion.
func (r *taskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	task, err := r.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Task{})
	if res.Error != nil {
		return nil, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return task, nil
}

// ListByOwner lists the owner's tasks narrowed by filter.
func (r *taskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if filter.Sort != nil {
		if column, ok := taskSortColumns[filter.Sort.Field]; ok {
			q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.Sort.Desc})
		}
	}
	switch {
	case filter.Limit > 0:
		q = q.Limit(filter.Limit)
	case filter.Skip > 0:
		// MySQL rejects OFFSET without LIMIT.
		q = q.Limit(math.MaxInt)
	}
	if filter.Skip > 0 {
		q = q.Offset(filter.Skip)
	}

	tasks := []model.Task{}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, translateGormError(err)
	}
	return tasks, nil
}

// DeleteByOwner removes every task of ownerID and reports how many went.
func (r *taskRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&model.Task{})
	if res.Error != nil {
		return 0, translateGormError(res.Error)
	}
	return res.RowsAffected, nil
}
