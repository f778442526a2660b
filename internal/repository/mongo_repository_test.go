package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"taskmanager/internal/model"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by email decodes token list", func(mt *mtest.T) {
		id := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "taskmanager.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id.String()},
			{Key: "name", Value: "Mike"},
			{Key: "email", Value: "mike@example.com"},
			{Key: "password", Value: "hash"},
			{Key: "age", Value: 27},
			{Key: "tokens", Value: bson.A{
				bson.D{{Key: "token", Value: "t1"}},
				bson.D{{Key: "token", Value: "t2"}},
			}},
		}))

		user, err := NewMongoUserRepository(mt.DB).FindByEmail(ctx, "mike@example.com")

		require.NoError(mt, err)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "Mike", user.Name)
		assert.Equal(mt, 27, user.Age)
		assert.Equal(mt, []string{"t1", "t2"}, user.Tokens)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "taskmanager.users", mtest.FirstBatch))

		user, err := NewMongoUserRepository(mt.DB).FindByID(ctx, uuid.New())

		assert.ErrorIs(mt, err, ErrNotFound)
		assert.Nil(mt, user)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: taskmanager.users index: email_1",
		}))

		err := NewMongoUserRepository(mt.DB).Create(ctx, &model.User{Name: "Mike", Email: "mike@example.com"})

		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		user := &model.User{Name: "Jess", Email: "jess@example.com"}

		err := NewMongoUserRepository(mt.DB).Create(ctx, user)

		require.NoError(mt, err)
		assert.NotEqual(mt, uuid.Nil, user.ID)
		assert.False(mt, user.CreatedAt.IsZero())
		assert.Equal(mt, user.CreatedAt, user.UpdatedAt)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := NewMongoUserRepository(mt.DB).Delete(ctx, uuid.New())

		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoTaskRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ownerID := uuid.New()

	mt.Run("list decodes every document", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(1, "taskmanager.tasks", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: uuid.NewString()},
				{Key: "description", Value: "First task"},
				{Key: "completed", Value: false},
				{Key: "owner", Value: ownerID.String()},
			},
			bson.D{
				{Key: "_id", Value: uuid.NewString()},
				{Key: "description", Value: "Second task"},
				{Key: "completed", Value: true},
				{Key: "owner", Value: ownerID.String()},
			},
		)
		end := mtest.CreateCursorResponse(0, "taskmanager.tasks", mtest.NextBatch)
		mt.AddMockResponses(first, end)

		tasks, err := NewMongoTaskRepository(mt.DB).ListByOwner(ctx, ownerID, TaskFilter{
			Sort: &TaskSort{Field: SortByDescription},
		})

		require.NoError(mt, err)
		require.Len(mt, tasks, 2)
		assert.Equal(mt, "First task", tasks[0].Description)
		assert.True(mt, tasks[1].Completed)
		assert.Equal(mt, ownerID, tasks[1].OwnerID)
	})

	mt.Run("delete by owner reports count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))

		n, err := NewMongoTaskRepository(mt.DB).DeleteByOwner(ctx, ownerID)

		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)
	})

	mt.Run("update of foreign task", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := NewMongoTaskRepository(mt.DB).Update(ctx, &model.Task{ID: uuid.New(), OwnerID: ownerID, Description: "x"})

		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
