package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"taskmanager/internal/model"
)

// UsersCollection is the Mongo collection holding user documents.
const UsersCollection = "users"

type tokenDocument struct {
	Token string `bson:"token"`
}

type userDocument struct {
	ID        string          `bson:"_id"`
	Name      string          `bson:"name"`
	Email     string          `bson:"email"`
	Password  string          `bson:"password"`
	Age       int             `bson:"age"`
	Tokens    []tokenDocument `bson:"tokens"`
	Avatar    []byte          `bson:"avatar,omitempty"`
	CreatedAt time.Time       `bson:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

func newUserDocument(u *model.User) userDocument {
	tokens := make([]tokenDocument, 0, len(u.Tokens))
	for _, t := range u.Tokens {
		tokens = append(tokens, tokenDocument{Token: t})
	}
	return userDocument{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Age:       u.Age,
		Tokens:    tokens,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d userDocument) toModel() (*model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user id %q: %w", d.ID, err)
	}
	tokens := make([]string, 0, len(d.Tokens))
	for _, t := range d.Tokens {
		tokens = append(tokens, t.Token)
	}
	return &model.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		Age:          d.Age,
		Tokens:       tokens,
		Avatar:       d.Avatar,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type mongoUserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoUserRepository builds a UserRepository on the users collection of db.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(UsersCollection), now: time.Now}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now().UTC().Truncate(time.Millisecond)
	user.CreatedAt, user.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		return translateMongoError(err)
	}
	return nil
}

func (r *mongoUserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID.String()}, newUserDocument(user))
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.toModel()
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}
