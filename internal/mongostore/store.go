// Package mongostore keeps users, lists, reviews and news in MongoDB collections. It mirrors the
// repositories of internal/database so either backend can serve the domain services.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reelhouse/models"
)

const (
	colUsers     = "users"
	colFollows   = "follows"
	colLists     = "lists"
	colReviews   = "reviews"
	colNewsrooms = "newsrooms"
	colPosts     = "news_posts"
	colComments  = "comments"

	defaultLimit = 50
	maxLimit     = 200
)

// Config describes the MongoDB deployment.
type Config struct {
	URI      string
	Database string
	// ConnectAttempts bounds the initial connect/ping retries. Zero means 5.
	ConnectAttempts uint
}

// Store owns the client and exposes one repository per aggregate.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	Users   *UserRepository
	Lists   *ListRepository
	Reviews *ReviewRepository
	News    *NewsRepository
}

// Connect dials MongoDB, retrying until the server answers a ping, then ensures indexes.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 5
	}

	var client *mongo.Client
	err := retry.Do(
		func() error {
			c, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetConnectTimeout(10*time.Second))
			if err != nil {
				return err
			}
			if err := c.Ping(ctx, nil); err != nil {
				_ = c.Disconnect(context.Background())
				return err
			}
			client = c
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[mongostore] connect attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	s := newStore(client, client.Database(cfg.Database))
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Printf("[mongostore] connected to database %q", cfg.Database)
	return s, nil
}

func newStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:  client,
		db:      db,
		Users:   &UserRepository{users: db.Collection(colUsers), follows: db.Collection(colFollows), db: db},
		Lists:   &ListRepository{coll: db.Collection(colLists)},
		Reviews: &ReviewRepository{coll: db.Collection(colReviews)},
		News: &NewsRepository{
			rooms:    db.Collection(colNewsrooms),
			posts:    db.Collection(colPosts),
			comments: db.Collection(colComments),
		},
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "username_key", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colFollows: {
			{Keys: bson.D{{Key: "followee_id", Value: 1}}},
		},
		colLists: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		colReviews: {
			{Keys: bson.D{{Key: "media_type", Value: 1}, {Key: "movie_id", Value: 1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
		},
		colPosts: {
			{Keys: bson.D{{Key: "newsroom_id", Value: 1}}},
		},
		colComments: {
			{Keys: bson.D{{Key: "post_id", Value: 1}}},
		},
	}
	for name, idx := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Stats counts the documents of the main collections.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	targets := []struct {
		coll string
		dst  *int
	}{
		{colUsers, &out.Users},
		{colLists, &out.Lists},
		{colReviews, &out.Reviews},
		{colPosts, &out.Posts},
	}
	for _, t := range targets {
		n, err := s.db.Collection(t.coll).EstimatedDocumentCount(ctx)
		if err != nil {
			return out, fmt.Errorf("count %s: %w", t.coll, err)
		}
		*t.dst = int(n)
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func findOptions(limit, offset int) *options.FindOptions {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return options.Find().SetLimit(int64(limit)).SetSkip(int64(offset))
}

// notFound maps mongo.ErrNoDocuments to models.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// duplicate maps duplicate key errors to models.ErrConflict.
func duplicate(err error, what string) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", what, models.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func decodeAll[T any](ctx context.Context, cur *mongo.Cursor) ([]T, error) {
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
