package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "taskmanager/internal/errors"
	"taskmanager/internal/mocks"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

func boolPtr(b bool) *bool { return &b }

func TestParseTaskQuery(t *testing.T) {
	tests := []struct {
		name string
		in   TaskQuery
		want repository.TaskFilter
	}{
		{"empty", TaskQuery{}, repository.TaskFilter{}},
		{"completed true", TaskQuery{Completed: "true"}, repository.TaskFilter{Completed: boolPtr(true)}},
		{"completed anything else", TaskQuery{Completed: "yes"}, repository.TaskFilter{Completed: boolPtr(false)}},
		{"paging", TaskQuery{Limit: "10", Skip: "20"}, repository.TaskFilter{Limit: 10, Skip: 20}},
		{"non-numeric paging", TaskQuery{Limit: "ten", Skip: "x"}, repository.TaskFilter{}},
		{"negative paging", TaskQuery{Limit: "-1", Skip: "-5"}, repository.TaskFilter{}},
		{
			"sort desc",
			TaskQuery{SortBy: "createdAt:desc"},
			repository.TaskFilter{Sort: &repository.TaskSort{Field: repository.SortByCreatedAt, Desc: true}},
		},
		{
			"sort snake case asc",
			TaskQuery{SortBy: "updated_at:asc"},
			repository.TaskFilter{Sort: &repository.TaskSort{Field: repository.SortByUpdatedAt}},
		},
		{
			"sort without direction",
			TaskQuery{SortBy: "completed"},
			repository.TaskFilter{Sort: &repository.TaskSort{Field: repository.SortByCompleted}},
		},
		{"sort unknown field", TaskQuery{SortBy: "owner:desc"}, repository.TaskFilter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTaskQuery(tt.in))
		})
	}
}

func TestTaskService_Create_UsesSessionOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTaskRepository)
	svc := NewTaskService(repo)
	owner := uuid.New()

	repo.On("Create", ctx, mock.MatchedBy(func(task *model.Task) bool {
		return task.OwnerID == owner && task.Description == "Buy milk" && !task.Completed
	})).Return(nil)

	task, err := svc.Create(ctx, owner, NewTask{Description: "  Buy milk "})

	require.NoError(t, err)
	assert.Equal(t, owner, task.OwnerID)
	repo.AssertExpectations(t)
}

func TestTaskService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTaskRepository)
	svc := NewTaskService(repo)
	owner := uuid.New()
	done := []model.Task{{ID: uuid.New(), OwnerID: owner, Completed: true}}

	repo.On("ListByOwner", ctx, owner, repository.TaskFilter{Completed: boolPtr(true), Limit: 2}).Return(done, nil)

	tasks, err := svc.List(ctx, owner, TaskQuery{Completed: "true", Limit: "2"})

	require.NoError(t, err)
	assert.Equal(t, done, tasks)
}

func TestTaskService_NotOwnedIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTaskRepository)
	svc := NewTaskService(repo)
	owner, id := uuid.New(), uuid.New()

	repo.On("FindByIDAndOwner", ctx, id, owner).Return(nil, repository.ErrNotFound)
	repo.On("DeleteByIDAndOwner", ctx, id, owner).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(ctx, owner, id)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	_, err = svc.Update(ctx, owner, id, TaskUpdate{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	_, err = svc.Delete(ctx, owner, id)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTaskRepository)
	svc := NewTaskService(repo)
	owner := uuid.New()
	task := &model.Task{ID: uuid.New(), OwnerID: owner, Description: "Walk dog"}

	repo.On("FindByIDAndOwner", ctx, task.ID, owner).Return(task, nil)
	repo.On("Update", ctx, task).Return(nil)

	got, err := svc.Update(ctx, owner, task.ID, TaskUpdate{Completed: boolPtr(true)})

	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "Walk dog", got.Description)
}

func TestTaskService_StorageErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockTaskRepository)
	svc := NewTaskService(repo)
	owner, id := uuid.New(), uuid.New()
	boom := errors.New("connection reset")

	repo.On("FindByIDAndOwner", ctx, id, owner).Return(nil, boom)

	_, err := svc.Get(ctx, owner, id)

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, apperrors.ErrTaskNotFound)
}
