package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-social-backend/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateUser_Success(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	start := time.Now().UTC().Add(-time.Minute)
	u, err := CreateUser(context.Background(), db, "alice", "hash-1")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Username != "alice" || u.PasswordHash != "hash-1" {
		t.Fatalf("unexpected User fields: %+v", u)
	}
	if u.CreatedAt.Before(start) {
		t.Fatalf("CreatedAt seems unset: %v", u.CreatedAt)
	}

	// round-trip
	got, err := FindUserByUsername(context.Background(), db, "alice")
	if err != nil {
		t.Fatalf("FindUserByUsername: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	if _, err := CreateUser(context.Background(), db, "alice", "h1"); err != nil {
		t.Fatalf("first CreateUser: %v", err)
	}
	_, err := CreateUser(context.Background(), db, "alice", "h2")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Only one row survived.
	n, err := CountUsers(context.Background(), db)
	if err != nil || n != 1 {
		t.Fatalf("CountUsers = %d, %v; want 1", n, err)
	}
}

func TestFindUserByID_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.User{})

	_, err := FindUserByID(context.Background(), db, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsersByIDs(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	u1, _ := CreateUser(ctx, db, "alice", "h")
	u2, _ := CreateUser(ctx, db, "bob", "h")
	_, _ = CreateUser(ctx, db, "carol", "h")

	got, err := ListUsersByIDs(ctx, db, []string{u1.ID, u2.ID, "no-such-id"})
	if err != nil {
		t.Fatalf("ListUsersByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users (missing id silently absent), got %d", len(got))
	}

	// Empty input short-circuits without querying.
	empty, err := ListUsersByIDs(ctx, db, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty ids: got %v, %v", empty, err)
	}
}

func TestListUsersPage_OrderAndWindow(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	ctx := context.Background()

	// Seed with known CreatedAt so order is deterministic.
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, name := range []string{"u-old", "u-mid", "u-new"} {
		u := &domain.User{
			ID:           fmt.Sprintf("id-%d", i),
			Username:     name,
			PasswordHash: "h",
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}

	page, err := ListUsersPage(ctx, db, 0, 2)
	if err != nil {
		t.Fatalf("ListUsersPage: %v", err)
	}
	if len(page) != 2 || page[0].Username != "u-new" || page[1].Username != "u-mid" {
		t.Fatalf("expected newest-first window [u-new u-mid], got %+v", page)
	}

	rest, err := ListUsersPage(ctx, db, 2, 2)
	if err != nil {
		t.Fatalf("ListUsersPage offset=2: %v", err)
	}
	if len(rest) != 1 || rest[0].Username != "u-old" {
		t.Fatalf("expected [u-old], got %+v", rest)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := map[error]bool{
		gorm.ErrDuplicatedKey: true,
		errors.New("UNIQUE constraint failed: users.username"):   true,
		errors.New("constraint failed: UNIQUE constraint (...)"): true,
		errors.New("duplicate key value violates unique"):        true,
		errors.New("database is locked"):                         false,
	}
	for err, want := range cases {
		if got := isUniqueViolation(err); got != want {
			t.Errorf("isUniqueViolation(%v) = %v; want %v", err, got, want)
		}
	}
}
