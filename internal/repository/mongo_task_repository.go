package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskmanager/internal/model"
)

// TasksCollection is the Mongo collection holding task documents.
const TasksCollection = "tasks"

type taskDocument struct {
	ID          string    `bson:"_id"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	Owner       string    `bson:"owner"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func newTaskDocument(t *model.Task) taskDocument {
	return taskDocument{
		ID:          t.ID.String(),
		Description: t.Description,
		Completed:   t.Completed,
		Owner:       t.OwnerID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d taskDocument) toModel() (*model.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode task id %q: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.Owner)
	if err != nil {
		return nil, fmt.Errorf("decode task owner %q: %w", d.Owner, err)
	}
	return &model.Task{
		ID:          id,
		Description: d.Description,
		Completed:   d.Completed,
		OwnerID:     owner,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

type mongoTaskRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoTaskRepository builds a TaskRepository on the tasks collection of db.
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &mongoTaskRepository{coll: db.Collection(TasksCollection), now: time.Now}
}

func ownedBy(id, ownerID uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "owner": ownerID.String()}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	now := r.now().UTC().Truncate(time.Millisecond)
	task.CreatedAt, task.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, newTaskDocument(task)); err != nil {
		return translateMongoError(err)
	}
	return nil
}

func (r *mongoTaskRepository) Update(ctx context.Context, task *model.Task) error {
	task.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)

	res, err := r.coll.ReplaceOne(ctx, ownedBy(task.ID, task.OwnerID), newTaskDocument(task))
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTaskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	var doc taskDocument
	if err := r.coll.FindOne(ctx, ownedBy(id, ownerID)).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.toModel()
}

func (r *mongoTaskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	var doc taskDocument
	if err := r.coll.FindOneAndDelete(ctx, ownedBy(id, ownerID)).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.toModel()
}

func (r *mongoTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	query := bson.M{"owner": ownerID.String()}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find()
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Sort != nil {
		dir := 1
		if filter.Sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: string(filter.Sort.Field), Value: dir}})
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, translateMongoError(err)
	}
	defer cur.Close(ctx)

	tasks := []model.Task{}
	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		task, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := cur.Err(); err != nil {
		return nil, translateMongoError(err)
	}
	return tasks, nil
}

func (r *mongoTaskRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"owner": ownerID.String()})
	if err != nil {
		return 0, translateMongoError(err)
	}
	return res.DeletedCount, nil
}
