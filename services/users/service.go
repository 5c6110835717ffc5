// Package users manages accounts, profiles, follows and the admin account operations.
package users

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/sethvargo/go-password/password"

	"reelhouse/models"
	"reelhouse/services/auth"
)

// Store is the persistence the service needs. Both internal/database and internal/mongostore
// user repositories satisfy it.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	ListUsers(ctx context.Context, q models.UserQuery) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id string) error
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	ListFollowers(ctx context.Context, userID string) ([]models.User, error)
	ListFollowing(ctx context.Context, userID string) ([]models.User, error)
}

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const (
	maxDisplayName = 60
	maxBio         = 500
)

// Registration is the payload for creating an account.
type Registration struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

// Service implements account rules on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register validates and creates a viewer account.
func (s *Service) Register(ctx context.Context, reg Registration) (*models.User, error) {
	return s.create(ctx, reg, models.RoleViewer)
}

// CreateWithRole creates an account with an explicit role. Used by the create-admin command.
func (s *Service) CreateWithRole(ctx context.Context, reg Registration, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, models.ErrInvalidInput)
	}
	return s.create(ctx, reg, role)
}

func (s *Service) create(ctx context.Context, reg Registration, role models.Role) (*models.User, error) {
	username := strings.TrimSpace(reg.Username)
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("username must be 3-30 letters, digits, dots or underscores: %w", models.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("email %q: %w", reg.Email, models.ErrInvalidInput)
	}
	displayName := strings.TrimSpace(reg.DisplayName)
	if len(displayName) > maxDisplayName {
		return nil, fmt.Errorf("display name too long: %w", models.ErrInvalidInput)
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Username:     username,
		Email:        email,
		DisplayName:  displayName,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("username or email already registered: %w", models.ErrConflict)
		}
		return nil, err
	}
	log.Printf("[users] registered %s (%s) role=%s", u.Username, u.ID, u.Role)
	return u, nil
}

// Authenticate checks the credentials. Unknown users and wrong passwords are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, login, pw string) (*models.User, error) {
	u, err := s.store.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, pw) {
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) Search(ctx context.Context, q models.UserQuery) ([]models.User, error) {
	if q.Role != "" && !q.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", q.Role, models.ErrInvalidInput)
	}
	return s.store.ListUsers(ctx, q)
}

// UpdateProfile applies the non-nil fields of upd to the user's own profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.DisplayName != nil {
		name := strings.TrimSpace(*upd.DisplayName)
		if name == "" || len(name) > maxDisplayName {
			return nil, fmt.Errorf("display name must be 1-%d characters: %w", maxDisplayName, models.ErrInvalidInput)
		}
		u.DisplayName = name
	}
	if upd.Bio != nil {
		if len(*upd.Bio) > maxBio {
			return nil, fmt.Errorf("bio longer than %d characters: %w", maxBio, models.ErrInvalidInput)
		}
		u.Bio = strings.TrimSpace(*upd.Bio)
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*upd.AvatarURL)
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("cannot follow yourself: %w", models.ErrInvalidInput)
	}
	if _, err := s.store.GetUser(ctx, followeeID); err != nil {
		return err
	}
	return s.store.Follow(ctx, followerID, followeeID)
}

func (s *Service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return fmt.Errorf("cannot unfollow yourself: %w", models.ErrInvalidInput)
	}
	return s.store.Unfollow(ctx, followerID, followeeID)
}

func (s *Service) Followers(ctx context.Context, userID string) ([]models.User, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListFollowers(ctx, userID)
}

func (s *Service) Following(ctx context.Context, userID string) ([]models.User, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListFollowing(ctx, userID)
}

// SetRole changes a user's role. Admins cannot demote themselves.
func (s *Service) SetRole(ctx context.Context, actorID, userID string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("role %q: %w", role, models.ErrInvalidInput)
	}
	if actorID == userID && role != models.RoleAdmin {
		return nil, fmt.Errorf("admins cannot demote themselves: %w", models.ErrForbidden)
	}
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("[users] %s set role of %s to %s", actorID, userID, role)
	return u, nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return fmt.Errorf("admins cannot delete themselves: %w", models.ErrForbidden)
	}
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	log.Printf("[users] %s deleted user %s", actorID, userID)
	return nil
}

// ResetPassword replaces the password with a generated one and returns it.
func (s *Service) ResetPassword(ctx context.Context, userID string) (string, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	pw, err := GeneratePassword()
	if err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		return "", err
	}
	u.PasswordHash = hash
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return "", err
	}
	log.Printf("[users] password reset for %s", userID)
	return pw, nil
}

// GeneratePassword returns a random 16 character password with digits and symbols.
func GeneratePassword() (string, error) {
	pw, err := password.Generate(16, 4, 2, false, false)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return pw, nil
}
