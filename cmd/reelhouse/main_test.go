package main

import (
	"context"
	"path/filepath"
	"testing"

	"reelhouse/config"
	"reelhouse/models"
)

func TestOpenStoresSQLite(t *testing.T) {
	ctx := context.Background()
	st, err := openStores(ctx, config.StorageSettings{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "reelhouse.db"),
	})
	if err != nil {
		t.Fatalf("openStores: %v", err)
	}
	defer st.close()

	u := &models.User{Username: "ritwik", Email: "ritwik@example.com", Role: models.RoleViewer, PasswordHash: "x"}
	if err := st.users.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	stats, err := st.stats.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Users != 1 {
		t.Fatalf("expected 1 user, got %d", stats.Users)
	}
}

func TestOpenStoresUnknownDriver(t *testing.T) {
	if _, err := openStores(context.Background(), config.StorageSettings{Driver: "postgres"}); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
