package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskmanager/internal/repository"
)

const connectTimeout = 10 * time.Second

// NewMongo connects to uri, verifies the connection and returns the named database.
func NewMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client.Database(database), nil
}

// MigrateMongo ensures the indexes the repositories rely on, dropping both
// collections first when reset is set.
func MigrateMongo(ctx context.Context, db *mongo.Database, reset bool) error {
	users := db.Collection(repository.UsersCollection)
	tasks := db.Collection(repository.TasksCollection)

	if reset {
		if err := tasks.Drop(ctx); err != nil {
			return fmt.Errorf("drop tasks: %w", err)
		}
		if err := users.Drop(ctx); err != nil {
			return fmt.Errorf("drop users: %w", err)
		}
	}

	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	if _, err := tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "completed", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create tasks owner index: %w", err)
	}
	return nil
}
