package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"reelhouse/models"
)

type reviewDoc struct {
	ID               string    `bson:"_id"`
	MovieID          int64     `bson:"movie_id"`
	MediaType        string    `bson:"media_type"`
	MovieTitle       string    `bson:"movie_title"`
	AuthorID         string    `bson:"author_id"`
	Rating           float64   `bson:"rating"`
	Category         string    `bson:"category"`
	Body             string    `bson:"body"`
	ContainsSpoilers bool      `bson:"contains_spoilers"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func (d reviewDoc) review() models.Review {
	return models.Review{
		ID:               d.ID,
		MovieID:          d.MovieID,
		MediaType:        d.MediaType,
		MovieTitle:       d.MovieTitle,
		AuthorID:         d.AuthorID,
		Rating:           d.Rating,
		Category:         models.ReviewCategory(d.Category),
		Body:             d.Body,
		ContainsSpoilers: d.ContainsSpoilers,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ReviewRepository stores reviews in the "reviews" collection.
type ReviewRepository struct {
	coll *mongo.Collection
}

func (r *ReviewRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = newID()
	}
	now := time.Now().UTC()
	rv.CreatedAt, rv.UpdatedAt = now, now
	doc := reviewDoc{
		ID: rv.ID, MovieID: rv.MovieID, MediaType: rv.MediaType, MovieTitle: rv.MovieTitle, AuthorID: rv.AuthorID,
		Rating: rv.Rating, Category: string(rv.Category), Body: rv.Body, ContainsSpoilers: rv.ContainsSpoilers,
		CreatedAt: rv.CreatedAt, UpdatedAt: rv.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return duplicate(err, "insert review")
	}
	return nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, id string) (*models.Review, error) {
	var doc reviewDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, notFound(err, "review "+id)
	}
	rv := doc.review()
	return &rv, nil
}

func reviewFilter(q models.ReviewQuery) bson.M {
	filter := bson.M{}
	if q.MovieID > 0 {
		filter["movie_id"] = q.MovieID
	}
	if q.MediaType != "" {
		filter["media_type"] = q.MediaType
	}
	if q.AuthorID != "" {
		filter["author_id"] = q.AuthorID
	}
	return filter
}

func (r *ReviewRepository) ListReviews(ctx context.Context, q models.ReviewQuery) ([]models.Review, error) {
	opts := findOptions(q.Limit, q.Offset).SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, reviewFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	docs, err := decodeAll[reviewDoc](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	reviews := make([]models.Review, 0, len(docs))
	for _, d := range docs {
		reviews = append(reviews, d.review())
	}
	return reviews, nil
}

func (r *ReviewRepository) UpdateReview(ctx context.Context, rv *models.Review) error {
	rv.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, rv.ID, bson.M{"$set": bson.M{
		"movie_title":       rv.MovieTitle,
		"rating":            rv.Rating,
		"category":          string(rv.Category),
		"body":              rv.Body,
		"contains_spoilers": rv.ContainsSpoilers,
		"updated_at":        rv.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update review %s: %w", rv.ID, models.ErrNotFound)
	}
	return nil
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete review %s: %w", id, models.ErrNotFound)
	}
	return nil
}
