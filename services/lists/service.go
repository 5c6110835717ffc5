// Package lists implements user-curated movie lists.
package lists

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"

	"reelhouse/models"
)

const maxNameLength = 100

// Store is implemented by the sqlite and MongoDB list repositories.
type Store interface {
	CreateList(ctx context.Context, l *models.List) error
	GetList(ctx context.Context, id string) (*models.List, error)
	ListListsByOwner(ctx context.Context, ownerID string) ([]models.List, error)
	UpdateList(ctx context.Context, l *models.List) error
	DeleteList(ctx context.Context, id string) error
	AddListEntry(ctx context.Context, listID string, e models.ListEntry) error
	RemoveListEntry(ctx context.Context, listID, mediaType string, movieID int64) error
}

// Input is the payload for creating a list.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Slugify transliterates name to ASCII and joins its words with dashes.
func Slugify(name string) string {
	ascii := strings.ToLower(unidecode.Unidecode(name))
	var b strings.Builder
	dash := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "list"
	}
	return slug
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxNameLength {
		return "", fmt.Errorf("list name must be 1-%d characters: %w", maxNameLength, models.ErrInvalidInput)
	}
	return name, nil
}

func (s *Service) Create(ctx context.Context, ownerID string, in Input) (*models.List, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	l := &models.List{
		Name:        name,
		Slug:        Slugify(name),
		Description: strings.TrimSpace(in.Description),
		OwnerID:     ownerID,
		Private:     in.Private,
	}
	if err := s.store.CreateList(ctx, l); err != nil {
		return nil, err
	}
	log.Printf("[lists] %s created list %s (%s)", ownerID, l.ID, l.Slug)
	return l, nil
}

// Get returns a list. Private lists of other users are reported as missing.
func (s *Service) Get(ctx context.Context, viewerID, id string) (*models.List, error) {
	l, err := s.store.GetList(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Private && l.OwnerID != viewerID {
		return nil, fmt.Errorf("list %s: %w", id, models.ErrNotFound)
	}
	return l, nil
}

// ForUser returns the lists of userID as seen by viewerID.
func (s *Service) ForUser(ctx context.Context, viewerID, userID string) ([]models.List, error) {
	all, err := s.store.ListListsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewerID == userID {
		return all, nil
	}
	visible := make([]models.List, 0, len(all))
	for _, l := range all {
		if !l.Private {
			visible = append(visible, l)
		}
	}
	return visible, nil
}

func (s *Service) Update(ctx context.Context, actorID, id string, upd models.ListUpdate) (*models.List, error) {
	l, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		name, err := validateName(*upd.Name)
		if err != nil {
			return nil, err
		}
		l.Name, l.Slug = name, Slugify(name)
	}
	if upd.Description != nil {
		l.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Private != nil {
		l.Private = *upd.Private
	}
	if err := s.store.UpdateList(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return err
	}
	return s.store.DeleteList(ctx, id)
}

// AddMovie appends an entry. Adding a movie already in the list fails with models.ErrConflict.
func (s *Service) AddMovie(ctx context.Context, actorID, id string, e models.ListEntry) (*models.List, error) {
	if err := validateEntry(e.MediaType, e.MovieID); err != nil {
		return nil, err
	}
	l, err := s.owned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if l.Contains(e.Key()) {
		return nil, fmt.Errorf("%s already in list: %w", e.Key(), models.ErrConflict)
	}
	e.Title = strings.TrimSpace(e.Title)
	e.AddedAt = e.AddedAt.UTC()
	if err := s.store.AddListEntry(ctx, id, e); err != nil {
		return nil, err
	}
	return s.store.GetList(ctx, id)
}

func (s *Service) RemoveMovie(ctx context.Context, actorID, id, mediaType string, movieID int64) (*models.List, error) {
	if err := validateEntry(mediaType, movieID); err != nil {
		return nil, err
	}
	if _, err := s.owned(ctx, actorID, id); err != nil {
		return nil, err
	}
	if err := s.store.RemoveListEntry(ctx, id, mediaType, movieID); err != nil {
		return nil, err
	}
	return s.store.GetList(ctx, id)
}

func validateEntry(mediaType string, movieID int64) error {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return fmt.Errorf("media type %q: %w", mediaType, models.ErrInvalidInput)
	}
	if movieID <= 0 {
		return fmt.Errorf("movie id %d: %w", movieID, models.ErrInvalidInput)
	}
	return nil
}

// owned loads the list and checks actorID owns it. Private lists of others stay hidden.
func (s *Service) owned(ctx context.Context, actorID, id string) (*models.List, error) {
	l, err := s.Get(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != actorID {
		return nil, fmt.Errorf("list %s belongs to another user: %w", id, models.ErrForbidden)
	}
	return l, nil
}
