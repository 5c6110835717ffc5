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

// UserRepository persists accounts and follow edges.
type UserRepository struct {
	db *sql.DB
}

const userColumns = `u.id, u.username, u.email, u.display_name, u.bio, u.avatar_url, u.role, u.password_hash,
	(SELECT COUNT(*) FROM follows f WHERE f.followee_id = u.id),
	(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id),
	u.created_at, u.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.Bio, &u.AvatarURL, &role, &u.PasswordHash,
		&u.FollowersCount, &u.FollowingCount, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO users
		(id, username, email, display_name, bio, avatar_url, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.DisplayName, u.Bio, u.AvatarURL, string(u.Role), u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapConstraint(err, "insert user")
	}
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByLogin looks a user up by email or username, case-insensitively.
func (r *UserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = ? OR u.username = ? LIMIT 1`, login, login)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", login, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ListUsers(ctx context.Context, q models.UserQuery) ([]models.User, error) {
	limit, offset := limitOffset(q.Limit, q.Offset)

	var (
		where []string
		args  []any
	)
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := likeContains(strings.ToLower(s))
		where = append(where, `(LOWER(u.username) LIKE ? ESCAPE '\' OR LOWER(u.display_name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if q.Role != "" {
		where = append(where, "u.role = ?")
		args = append(args, string(q.Role))
	}

	query := `SELECT ` + userColumns + ` FROM users u`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY u.username LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryUsers(ctx, query, args...)
}

func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET
		username = ?, email = ?, display_name = ?, bio = ?, avatar_url = ?, role = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`,
		u.Username, u.Email, u.DisplayName, u.Bio, u.AvatarURL, string(u.Role), u.PasswordHash, u.UpdatedAt, u.ID)
	if err != nil {
		return mapConstraint(err, "update user")
	}
	return expectAffected(res, "update user "+u.ID)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectAffected(res, "delete user "+id)
}

// Follow records the edge; following twice is a no-op.
func (r *UserRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, ?)`,
		followerID, followeeID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

func (r *UserRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return expectAffected(res, "unfollow")
}

func (r *UserRepository) ListFollowers(ctx context.Context, userID string) ([]models.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users u
		JOIN follows fl ON fl.follower_id = u.id
		WHERE fl.followee_id = ? ORDER BY fl.created_at DESC`, userID)
}

func (r *UserRepository) ListFollowing(ctx context.Context, userID string) ([]models.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users u
		JOIN follows fl ON fl.followee_id = u.id
		WHERE fl.follower_id = ? ORDER BY fl.created_at DESC`, userID)
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains builds a LIKE pattern matching s literally anywhere in the value.
func likeContains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
