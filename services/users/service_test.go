package users_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"reelhouse/internal/database"
	"reelhouse/models"
	"reelhouse/services/users"
)

func newService(t *testing.T) *users.Service {
	t.Helper()
	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(t.TempDir(), "users.db")})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return users.NewService(db.Users)
}

func register(t *testing.T, svc *users.Service, username string) *models.User {
	t.Helper()
	u, err := svc.Register(context.Background(), users.Registration{
		Username: username,
		Email:    username + "@example.com",
		Password: "long enough pw",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	u := register(t, svc, "night_owl")
	if u.ID == "" {
		t.Fatalf("expected registered user to have id")
	}
	if u.Role != models.RoleViewer {
		t.Fatalf("expected viewer role, got %q", u.Role)
	}
	if u.DisplayName != "night_owl" {
		t.Fatalf("expected display name to default to username, got %q", u.DisplayName)
	}

	if _, err := svc.Authenticate(ctx, "NIGHT_OWL@example.com", "long enough pw"); err != nil {
		t.Fatalf("authenticate by email returned error: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "night_owl", "wrong password"); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "long enough pw"); !errors.Is(err, models.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(t)
	register(t, svc, "taken")

	cases := []struct {
		name string
		reg  users.Registration
		want error
	}{
		{"short username", users.Registration{Username: "ab", Email: "ab@example.com", Password: "long enough pw"}, models.ErrInvalidInput},
		{"bad email", users.Registration{Username: "valid", Email: "nope", Password: "long enough pw"}, models.ErrInvalidInput},
		{"short password", users.Registration{Username: "valid", Email: "v@example.com", Password: "short"}, models.ErrInvalidInput},
		{"password over bcrypt limit", users.Registration{Username: "valid", Email: "v@example.com", Password: strings.Repeat("a", 73)}, models.ErrInvalidInput},
		{"duplicate username", users.Registration{Username: "taken", Email: "new@example.com", Password: "long enough pw"}, models.ErrConflict},
		{"duplicate email", users.Registration{Username: "fresh", Email: "TAKEN@example.com", Password: "long enough pw"}, models.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.reg); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFollowRules(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	a := register(t, svc, "alpha")
	b := register(t, svc, "bravo")

	if err := svc.Follow(ctx, a.ID, a.ID); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected self-follow to fail, got %v", err)
	}
	if err := svc.Follow(ctx, a.ID, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for unknown followee, got %v", err)
	}
	if err := svc.Follow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("follow returned error: %v", err)
	}

	following, err := svc.Following(ctx, a.ID)
	if err != nil {
		t.Fatalf("following returned error: %v", err)
	}
	if len(following) != 1 || following[0].ID != b.ID {
		t.Fatalf("unexpected following: %+v", following)
	}

	if err := svc.Unfollow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("unfollow returned error: %v", err)
	}
	followers, err := svc.Followers(ctx, b.ID)
	if err != nil {
		t.Fatalf("followers returned error: %v", err)
	}
	if len(followers) != 0 {
		t.Fatalf("expected no followers, got %d", len(followers))
	}
}

func TestUpdateProfile(t *testing.T) {
	svc := newService(t)
	u := register(t, svc, "critic")

	name, bio := "The Critic", "Watches everything twice."
	updated, err := svc.UpdateProfile(context.Background(), u.ID, models.ProfileUpdate{DisplayName: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.DisplayName != name || updated.Bio != bio {
		t.Fatalf("profile not updated: %+v", updated)
	}

	empty := "  "
	if _, err := svc.UpdateProfile(context.Background(), u.ID, models.ProfileUpdate{DisplayName: &empty}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank display name, got %v", err)
	}
}

func TestAdminOperations(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	admin, err := svc.CreateWithRole(ctx, users.Registration{Username: "root", Email: "root@example.com", Password: "long enough pw"}, models.RoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	target := register(t, svc, "member")

	promoted, err := svc.SetRole(ctx, admin.ID, target.ID, models.RoleFilmmaker)
	if err != nil {
		t.Fatalf("set role returned error: %v", err)
	}
	if promoted.Role != models.RoleFilmmaker {
		t.Fatalf("expected filmmaker, got %q", promoted.Role)
	}
	if _, err := svc.SetRole(ctx, admin.ID, admin.ID, models.RoleViewer); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected self-demotion to fail, got %v", err)
	}
	if _, err := svc.SetRole(ctx, admin.ID, target.ID, "emperor"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected unknown role to fail, got %v", err)
	}

	pw, err := svc.ResetPassword(ctx, target.ID)
	if err != nil {
		t.Fatalf("reset password returned error: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "member", pw); err != nil {
		t.Fatalf("expected generated password to work: %v", err)
	}

	if err := svc.Delete(ctx, admin.ID, admin.ID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected self-delete to fail, got %v", err)
	}
	if err := svc.Delete(ctx, admin.ID, target.ID); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, err := svc.Get(ctx, target.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected user to be deleted, got %v", err)
	}
}
