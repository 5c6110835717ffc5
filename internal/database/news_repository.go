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

// NewsRepository persists newsrooms, posts and comments.
type NewsRepository struct {
	db *sql.DB
}

func (r *NewsRepository) CreateNewsroom(ctx context.Context, n *models.Newsroom) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO newsrooms (id, name, description, owner_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Name, n.Description, n.OwnerID, n.CreatedAt)
	if err != nil {
		return mapConstraint(err, "insert newsroom")
	}
	return nil
}

func (r *NewsRepository) GetNewsroom(ctx context.Context, id string) (*models.Newsroom, error) {
	var n models.Newsroom
	err := r.db.QueryRowContext(ctx, `SELECT id, name, description, owner_id, created_at FROM newsrooms WHERE id = ?`, id).
		Scan(&n.ID, &n.Name, &n.Description, &n.OwnerID, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("newsroom %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get newsroom: %w", err)
	}
	return &n, nil
}

func (r *NewsRepository) ListNewsrooms(ctx context.Context) ([]models.Newsroom, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, owner_id, created_at FROM newsrooms ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query newsrooms: %w", err)
	}
	defer rows.Close()

	out := []models.Newsroom{}
	for rows.Next() {
		var n models.Newsroom
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.OwnerID, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan newsroom: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NewsRepository) CreatePost(ctx context.Context, p *models.NewsPost) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.CommentIDs = []string{}

	_, err := r.db.ExecContext(ctx, `INSERT INTO news_posts (id, title, body, author_id, newsroom_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, p.ID, p.Title, p.Body, p.AuthorID, p.NewsroomID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapConstraint(err, "insert post")
	}
	return nil
}

func (r *NewsRepository) GetPost(ctx context.Context, id string) (*models.NewsPost, error) {
	var p models.NewsPost
	err := r.db.QueryRowContext(ctx, `SELECT id, title, body, author_id, newsroom_id, created_at, updated_at FROM news_posts WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.NewsroomID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p.CommentIDs, err = r.commentIDs(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns posts newest first.
func (r *NewsRepository) ListPosts(ctx context.Context, q models.NewsQuery) ([]models.NewsPost, error) {
	limit, offset := limitOffset(q.Limit, q.Offset)

	var (
		where []string
		args  []any
	)
	if q.NewsroomID != "" {
		where = append(where, "newsroom_id = ?")
		args = append(args, q.NewsroomID)
	}
	if q.AuthorID != "" {
		where = append(where, "author_id = ?")
		args = append(args, q.AuthorID)
	}
	query := `SELECT id, title, body, author_id, newsroom_id, created_at, updated_at FROM news_posts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	posts := []models.NewsPost{}
	for rows.Next() {
		var p models.NewsPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.NewsroomID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].CommentIDs, err = r.commentIDs(ctx, posts[i].ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (r *NewsRepository) UpdatePost(ctx context.Context, p *models.NewsPost) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE news_posts SET title = ?, body = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Body, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return expectAffected(res, "update post "+p.ID)
}

func (r *NewsRepository) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectAffected(res, "delete post "+id)
}

func (r *NewsRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO comments (id, post_id, author_id, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, c.Body, c.CreatedAt)
	if err != nil {
		return mapConstraint(err, "insert comment")
	}
	return nil
}

func (r *NewsRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowContext(ctx, `SELECT id, post_id, author_id, body, created_at FROM comments WHERE id = ?`, id).
		Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// ListComments returns the comments of a post oldest first.
func (r *NewsRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, post_id, author_id, body, created_at FROM comments
		WHERE post_id = ? ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	out := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *NewsRepository) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return expectAffected(res, "delete comment "+id)
}

func (r *NewsRepository) commentIDs(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM comments WHERE post_id = ? ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, fmt.Errorf("query comment ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan comment id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
