package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"reelhouse/models"
)

func TestReviewFilter(t *testing.T) {
	assert.Empty(t, reviewFilter(models.ReviewQuery{}))

	f := reviewFilter(models.ReviewQuery{MovieID: 27205, MediaType: models.MediaTypeMovie, AuthorID: "u1"})
	assert.Equal(t, bson.M{"movie_id": int64(27205), "media_type": "movie", "author_id": "u1"}, f)
}

func TestFindOptionsClampsPaging(t *testing.T) {
	opts := findOptions(0, -5)
	require.NotNil(t, opts.Limit)
	assert.EqualValues(t, defaultLimit, *opts.Limit)
	assert.EqualValues(t, 0, *opts.Skip)

	opts = findOptions(10_000, 40)
	assert.EqualValues(t, maxLimit, *opts.Limit)
	assert.EqualValues(t, 40, *opts.Skip)
}

func TestUserDocKeysAreLowercase(t *testing.T) {
	doc := toUserDoc(&models.User{ID: "1", Username: "MiraNair", Email: "Mira@Example.COM", Role: models.RoleFilmmaker})
	assert.Equal(t, "miranair", doc.UsernameKey)
	assert.Equal(t, "mira@example.com", doc.EmailKey)

	u := doc.user()
	assert.Equal(t, "MiraNair", u.Username)
	assert.Equal(t, models.RoleFilmmaker, u.Role)
}

func TestListDocPreservesEntryOrder(t *testing.T) {
	doc := listDoc{ID: "l1", Entries: []entryDoc{
		{MovieID: 2, MediaType: "movie"},
		{MovieID: 1, MediaType: "tv"},
	}}
	l := doc.list()
	require.Len(t, l.Entries, 2)
	assert.Equal(t, "movie:2", l.Entries[0].Key())
	assert.Equal(t, "tv:1", l.Entries[1].Key())

	empty := listDoc{ID: "l2"}.list()
	assert.NotNil(t, empty.Entries)
}

func TestReviewRepositoryAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate insert maps to conflict", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))
		repo := &ReviewRepository{coll: mt.Coll}

		err := repo.CreateReview(context.Background(), &models.Review{ID: "r1", MovieID: 1, MediaType: "movie"})
		assert.True(mt, errors.Is(err, models.ErrConflict), "got %v", err)
	})

	mt.Run("missing review maps to not found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := &ReviewRepository{coll: mt.Coll}

		_, err := repo.GetReview(context.Background(), "nope")
		assert.True(mt, errors.Is(err, models.ErrNotFound), "got %v", err)
	})

	mt.Run("decodes stored review", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "r1"},
			{Key: "movie_id", Value: int64(550)},
			{Key: "media_type", Value: "movie"},
			{Key: "author_id", Value: "u1"},
			{Key: "rating", Value: 8.5},
			{Key: "category", Value: "recommended"},
			{Key: "body", Value: "Sharp."},
			{Key: "contains_spoilers", Value: true},
			{Key: "created_at", Value: created},
			{Key: "updated_at", Value: created},
		}))
		repo := &ReviewRepository{coll: mt.Coll}

		rv, err := repo.GetReview(context.Background(), "r1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(550), rv.MovieID)
		assert.Equal(mt, models.CategoryRecommended, rv.Category)
		assert.True(mt, rv.ContainsSpoilers)
		assert.True(mt, created.Equal(rv.CreatedAt))
	})
}
