package lists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"reelhouse/models"
)

type memoryStore struct {
	lists map[string]*models.List
	seq   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{lists: map[string]*models.List{}}
}

func (m *memoryStore) CreateList(_ context.Context, l *models.List) error {
	m.seq++
	l.ID = fmt.Sprintf("list-%d", m.seq)
	l.CreatedAt = time.Now()
	l.Entries = []models.ListEntry{}
	cp := *l
	m.lists[l.ID] = &cp
	return nil
}

func (m *memoryStore) GetList(_ context.Context, id string) (*models.List, error) {
	l, ok := m.lists[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *l
	cp.Entries = append([]models.ListEntry(nil), l.Entries...)
	return &cp, nil
}

func (m *memoryStore) ListListsByOwner(_ context.Context, ownerID string) ([]models.List, error) {
	var out []models.List
	for i := 1; i <= m.seq; i++ {
		if l, ok := m.lists[fmt.Sprintf("list-%d", i)]; ok && l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memoryStore) UpdateList(_ context.Context, l *models.List) error {
	if _, ok := m.lists[l.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *l
	m.lists[l.ID] = &cp
	return nil
}

func (m *memoryStore) DeleteList(_ context.Context, id string) error {
	delete(m.lists, id)
	return nil
}

func (m *memoryStore) AddListEntry(_ context.Context, listID string, e models.ListEntry) error {
	l := m.lists[listID]
	if l.Contains(e.Key()) {
		return models.ErrConflict
	}
	l.Entries = append(l.Entries, e)
	return nil
}

func (m *memoryStore) RemoveListEntry(_ context.Context, listID, mediaType string, movieID int64) error {
	l := m.lists[listID]
	key := models.MediaKey(mediaType, movieID)
	for i, e := range l.Entries {
		if e.Key() == key {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Weekend Watchlist":           "weekend-watchlist",
		"  Rajinikanth -- Classics!!": "rajinikanth-classics",
		"Café Noir":                   "cafe-noir",
		"!!!":                         "list",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCreateValidatesName(t *testing.T) {
	svc := NewService(newMemoryStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", Input{Name: "   "}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
	if _, err := svc.Create(ctx, "u1", Input{Name: strings.Repeat("x", 101)}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for long name, got %v", err)
	}

	l, err := svc.Create(ctx, "u1", Input{Name: strings.Repeat("x", 100)})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if l.OwnerID != "u1" || len(l.Entries) != 0 {
		t.Fatalf("unexpected list: %+v", l)
	}
}

func TestPrivateListsHiddenFromOthers(t *testing.T) {
	svc := NewService(newMemoryStore())
	ctx := context.Background()

	secret, _ := svc.Create(ctx, "owner", Input{Name: "Guilty Pleasures", Private: true})
	public, _ := svc.Create(ctx, "owner", Input{Name: "Essentials"})

	if _, err := svc.Get(ctx, "stranger", secret.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected private list to be hidden, got %v", err)
	}
	if _, err := svc.Get(ctx, "owner", secret.ID); err != nil {
		t.Fatalf("owner should see private list: %v", err)
	}

	seen, err := svc.ForUser(ctx, "stranger", "owner")
	if err != nil {
		t.Fatalf("ForUser returned error: %v", err)
	}
	if len(seen) != 1 || seen[0].ID != public.ID {
		t.Fatalf("expected only the public list, got %+v", seen)
	}

	mine, _ := svc.ForUser(ctx, "owner", "owner")
	if len(mine) != 2 {
		t.Fatalf("expected owner to see both lists, got %d", len(mine))
	}
}

func TestOwnershipAndDuplicates(t *testing.T) {
	svc := NewService(newMemoryStore())
	ctx := context.Background()
	l, _ := svc.Create(ctx, "owner", Input{Name: "Monsoon Movies"})

	entry := models.ListEntry{MovieID: 19404, MediaType: models.MediaTypeMovie, Title: "Dilwale Dulhania Le Jayenge"}
	if _, err := svc.AddMovie(ctx, "intruder", l.ID, entry); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	got, err := svc.AddMovie(ctx, "owner", l.ID, entry)
	if err != nil {
		t.Fatalf("AddMovie returned error: %v", err)
	}
	if len(got.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(got.Entries))
	}
	if _, err := svc.AddMovie(ctx, "owner", l.ID, entry); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected conflict for duplicate, got %v", err)
	}

	tvEntry := entry
	tvEntry.MediaType = models.MediaTypeTV
	if _, err := svc.AddMovie(ctx, "owner", l.ID, tvEntry); err != nil {
		t.Fatalf("same id with other media type should be allowed: %v", err)
	}
	if _, err := svc.AddMovie(ctx, "owner", l.ID, models.ListEntry{MovieID: 1, MediaType: "person"}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for person entry, got %v", err)
	}

	got, err = svc.RemoveMovie(ctx, "owner", l.ID, models.MediaTypeMovie, 19404)
	if err != nil {
		t.Fatalf("RemoveMovie returned error: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].MediaType != models.MediaTypeTV {
		t.Fatalf("unexpected entries after removal: %+v", got.Entries)
	}

	newName := "Rainy Day Movies"
	updated, err := svc.Update(ctx, "owner", l.ID, models.ListUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Slug != "rainy-day-movies" {
		t.Fatalf("expected slug to follow name, got %q", updated.Slug)
	}

	if err := svc.Delete(ctx, "intruder", l.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected forbidden delete, got %v", err)
	}
	if err := svc.Delete(ctx, "owner", l.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}
