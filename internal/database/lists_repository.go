package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reelhouse/models"
)

// ListRepository persists user lists and their ordered entries.
type ListRepository struct {
	db *sql.DB
}

const listColumns = `id, owner_id, name, slug, description, private, created_at, updated_at`

func scanList(row rowScanner) (*models.List, error) {
	var l models.List
	var private int
	if err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Slug, &l.Description, &private, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Private = private != 0
	l.Entries = []models.ListEntry{}
	return &l, nil
}

func (r *ListRepository) CreateList(ctx context.Context, l *models.List) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now
	if l.Entries == nil {
		l.Entries = []models.ListEntry{}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO lists (`+listColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OwnerID, l.Name, l.Slug, l.Description, boolToInt(l.Private), l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return mapConstraint(err, "insert list")
	}
	return nil
}

func (r *ListRepository) GetList(ctx context.Context, id string) (*models.List, error) {
	l, err := scanList(r.db.QueryRowContext(ctx, `SELECT `+listColumns+` FROM lists WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("list %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}

	entries, err := r.entries(ctx, []string{l.ID})
	if err != nil {
		return nil, err
	}
	l.Entries = append(l.Entries, entries[l.ID]...)
	return l, nil
}

func (r *ListRepository) ListListsByOwner(ctx context.Context, ownerID string) ([]models.List, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+listColumns+` FROM lists WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	lists := []models.List{}
	var ids []string
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := r.entries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].Entries = append(lists[i].Entries, entries[lists[i].ID]...)
	}
	return lists, nil
}

func (r *ListRepository) UpdateList(ctx context.Context, l *models.List) error {
	l.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE lists SET name = ?, slug = ?, description = ?, private = ?, updated_at = ? WHERE id = ?`,
		l.Name, l.Slug, l.Description, boolToInt(l.Private), l.UpdatedAt, l.ID)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return expectAffected(res, "update list "+l.ID)
}

func (r *ListRepository) DeleteList(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return expectAffected(res, "delete list "+id)
}

// AddListEntry appends an entry. The (list, media type, movie) primary key rejects duplicates
// with models.ErrConflict.
func (r *ListRepository) AddListEntry(ctx context.Context, listID string, e models.ListEntry) error {
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO list_entries (list_id, media_type, movie_id, title, poster_path, position, added_at)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM list_entries WHERE list_id = ?), ?)`,
		listID, e.MediaType, e.MovieID, e.Title, e.PosterPath, listID, e.AddedAt)
	if err != nil {
		return mapConstraint(err, "insert list entry")
	}
	if _, err := tx.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, time.Now().UTC(), listID); err != nil {
		return fmt.Errorf("touch list: %w", err)
	}
	return tx.Commit()
}

func (r *ListRepository) RemoveListEntry(ctx context.Context, listID, mediaType string, movieID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM list_entries WHERE list_id = ? AND media_type = ? AND movie_id = ?`,
		listID, mediaType, movieID)
	if err != nil {
		return fmt.Errorf("delete list entry: %w", err)
	}
	if err := expectAffected(res, fmt.Sprintf("list entry %s", models.MediaKey(mediaType, movieID))); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE lists SET updated_at = ? WHERE id = ?`, time.Now().UTC(), listID); err != nil {
		return fmt.Errorf("touch list: %w", err)
	}
	return nil
}

// entries loads the entries of the given lists keyed by list id, each in insertion order.
func (r *ListRepository) entries(ctx context.Context, listIDs []string) (map[string][]models.ListEntry, error) {
	out := make(map[string][]models.ListEntry, len(listIDs))
	for _, id := range listIDs {
		rows, err := r.db.QueryContext(ctx, `SELECT media_type, movie_id, title, poster_path, added_at
			FROM list_entries WHERE list_id = ? ORDER BY position`, id)
		if err != nil {
			return nil, fmt.Errorf("query list entries: %w", err)
		}
		for rows.Next() {
			var e models.ListEntry
			if err := rows.Scan(&e.MediaType, &e.MovieID, &e.Title, &e.PosterPath, &e.AddedAt); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan list entry: %w", err)
			}
			out[id] = append(out[id], e)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
