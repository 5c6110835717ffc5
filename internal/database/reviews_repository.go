package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelhouse/models"
)

// ReviewRepository persists movie reviews.
type ReviewRepository struct {
	db *sql.DB
}

const reviewColumns = `id, movie_id, media_type, movie_title, author_id, rating, category, body, contains_spoilers, created_at, updated_at`

func scanReview(row rowScanner) (*models.Review, error) {
	var rv models.Review
	var category string
	var spoilers int
	if err := row.Scan(&rv.ID, &rv.MovieID, &rv.MediaType, &rv.MovieTitle, &rv.AuthorID, &rv.Rating, &category, &rv.Body,
		&spoilers, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	rv.Category = models.ReviewCategory(category)
	rv.ContainsSpoilers = spoilers != 0
	return &rv, nil
}

func (r *ReviewRepository) CreateReview(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rv.CreatedAt, rv.UpdatedAt = now, now

	_, err := r.db.ExecContext(ctx, `INSERT INTO reviews (`+reviewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rv.ID, rv.MovieID, rv.MediaType, rv.MovieTitle, rv.AuthorID, rv.Rating, string(rv.Category), rv.Body,
		boolToInt(rv.ContainsSpoilers), rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		return mapConstraint(err, "insert review")
	}
	return nil
}

func (r *ReviewRepository) GetReview(ctx context.Context, id string) (*models.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

// ListReviews returns reviews newest first.
func (r *ReviewRepository) ListReviews(ctx context.Context, q models.ReviewQuery) ([]models.Review, error) {
	limit, offset := limitOffset(q.Limit, q.Offset)

	var (
		where []string
		args  []any
	)
	if q.MovieID > 0 {
		where = append(where, "movie_id = ?")
		args = append(args, q.MovieID)
	}
	if q.MediaType != "" {
		where = append(where, "media_type = ?")
		args = append(args, q.MediaType)
	}
	if q.AuthorID != "" {
		where = append(where, "author_id = ?")
		args = append(args, q.AuthorID)
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) UpdateReview(ctx context.Context, rv *models.Review) error {
	rv.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET movie_title = ?, rating = ?, category = ?, body = ?, contains_spoilers = ?, updated_at = ?
		WHERE id = ?`,
		rv.MovieTitle, rv.Rating, string(rv.Category), rv.Body, boolToInt(rv.ContainsSpoilers), rv.UpdatedAt, rv.ID)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return expectAffected(res, "update review "+rv.ID)
}

func (r *ReviewRepository) DeleteReview(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return expectAffected(res, "delete review "+id)
}
