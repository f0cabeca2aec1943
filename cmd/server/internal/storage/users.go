package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
)

// UserStore persists user documents. Email is enforced unique by index.
type UserStore struct {
	coll *mongo.Collection
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}
	return nil
}

// Insert adds a new user, ErrDuplicate on an email collision.
func (s *UserStore) Insert(ctx context.Context, u models.User) (err error) {
	start := time.Now()
	defer func() { observe("user_insert", start, err) }()

	_, err = s.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail fetches a user by email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (u *models.User, err error) {
	start := time.Now()
	defer func() { observe("user_find", start, err) }()

	var doc models.User
	err = s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &doc, nil
}

// FindByID fetches a user by id.
func (s *UserStore) FindByID(ctx context.Context, id string) (u *models.User, err error) {
	start := time.Now()
	defer func() { observe("user_find", start, err) }()

	var doc models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", id, err)
	}
	return &doc, nil
}

// SetRoadmapIDs replaces the tracked roadmap ids on a user.
func (s *UserStore) SetRoadmapIDs(ctx context.Context, id string, roadmapIDs []string) (err error) {
	start := time.Now()
	defer func() { observe("user_update", start, err) }()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"roadmap_ids": roadmapIDs,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update user %q: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}
