// Package reviews validates and stores movie reviews.
package reviews

import (
	"context"
	"fmt"
	"strings"

	"reelhouse/models"
)

const maxBodyLength = 10000

// Store is implemented by the sqlite and MongoDB review repositories.
type Store interface {
	CreateReview(ctx context.Context, rv *models.Review) error
	GetReview(ctx context.Context, id string) (*models.Review, error)
	ListReviews(ctx context.Context, q models.ReviewQuery) ([]models.Review, error)
	UpdateReview(ctx context.Context, rv *models.Review) error
	DeleteReview(ctx context.Context, id string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func validate(in *models.ReviewInput) error {
	if in.MediaType != models.MediaTypeMovie && in.MediaType != models.MediaTypeTV {
		return fmt.Errorf("media type %q: %w", in.MediaType, models.ErrInvalidInput)
	}
	if in.MovieID <= 0 {
		return fmt.Errorf("movie id %d: %w", in.MovieID, models.ErrInvalidInput)
	}
	if in.Rating < 0 || in.Rating > 10 {
		return fmt.Errorf("rating %.1f outside 0-10: %w", in.Rating, models.ErrInvalidInput)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("category %q: %w", in.Category, models.ErrInvalidInput)
	}
	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" || len(in.Body) > maxBodyLength {
		return fmt.Errorf("review body must be 1-%d characters: %w", maxBodyLength, models.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, authorID string, in models.ReviewInput) (*models.Review, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	rv := &models.Review{
		MovieID:          in.MovieID,
		MediaType:        in.MediaType,
		MovieTitle:       strings.TrimSpace(in.MovieTitle),
		AuthorID:         authorID,
		Rating:           in.Rating,
		Category:         in.Category,
		Body:             in.Body,
		ContainsSpoilers: in.ContainsSpoilers,
	}
	if err := s.store.CreateReview(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Review, error) {
	return s.store.GetReview(ctx, id)
}

func (s *Service) List(ctx context.Context, q models.ReviewQuery) ([]models.Review, error) {
	if q.MediaType != "" && q.MediaType != models.MediaTypeMovie && q.MediaType != models.MediaTypeTV {
		return nil, fmt.Errorf("media type %q: %w", q.MediaType, models.ErrInvalidInput)
	}
	return s.store.ListReviews(ctx, q)
}

// Update replaces the editable fields. Only the author may edit; the movie reference is fixed.
func (s *Service) Update(ctx context.Context, actorID, id string, in models.ReviewInput) (*models.Review, error) {
	rv, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.AuthorID != actorID {
		return nil, fmt.Errorf("review %s: %w", id, models.ErrForbidden)
	}
	in.MovieID, in.MediaType = rv.MovieID, rv.MediaType
	if err := validate(&in); err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.MovieTitle); t != "" {
		rv.MovieTitle = t
	}
	rv.Rating = in.Rating
	rv.Category = in.Category
	rv.Body = in.Body
	rv.ContainsSpoilers = in.ContainsSpoilers
	if err := s.store.UpdateReview(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// Delete removes a review. Its author and admins may delete it.
func (s *Service) Delete(ctx context.Context, actor *models.User, id string) error {
	rv, err := s.store.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if rv.AuthorID != actor.ID && actor.Role != models.RoleAdmin {
		return fmt.Errorf("review %s: %w", id, models.ErrForbidden)
	}
	return s.store.DeleteReview(ctx, id)
}
