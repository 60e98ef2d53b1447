package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	pkgsqlite "github.com/Temutjin2k/pivot-location/pkg/sqlite"
	"github.com/google/uuid"
)

func setup(t *testing.T) (*UserRepo, *LocationRecordRepo) {
	t.Helper()
	ctx := context.Background()

	db, err := pkgsqlite.Open(ctx, pkgsqlite.MemoryPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(ctx, db.DB); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	// idempotent
	if err := InitSchema(ctx, db.DB); err != nil {
		t.Fatalf("init schema twice: %v", err)
	}

	return NewUserRepo(db.DB), NewLocationRecordRepo(db.DB)
}

func TestUserRepo(t *testing.T) {
	users, _ := setup(t)
	ctx := context.Background()

	u := &models.User{Username: "bob", Email: "bob@example.com"}
	if err := users.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatalf("id was not assigned")
	}

	got, err := users.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != "bob" || got.Email != "bob@example.com" || !got.CreatedAt.Equal(u.CreatedAt) {
		t.Fatalf("user = %+v, want %+v", got, u)
	}

	if _, err := users.GetUserByID(ctx, uuid.New()); !errors.Is(err, types.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}

	dup := &models.User{Username: "bob", Email: "other@example.com"}
	if err := users.CreateUser(ctx, dup); err == nil {
		t.Fatalf("duplicate username accepted")
	}
}

func TestLocationRecordRepo(t *testing.T) {
	users, records := setup(t)
	ctx := context.Background()

	u := &models.User{Username: "carol", Email: "carol@example.com"}
	if err := users.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	rec, err := records.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get empty record: %v", err)
	}
	if !rec.IsEmpty() {
		t.Fatalf("new user record = %+v, want empty", rec)
	}

	first := models.NewLocationRecord("Times Square", models.Coordinate{Latitude: 40.758, Longitude: -73.9855},
		time.Date(2025, 1, 2, 3, 4, 5, 600, time.UTC))
	if err := records.Overwrite(ctx, u.ID, first); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	second := models.NewLocationRecord("Empire State Building", models.Coordinate{Latitude: 40.7484, Longitude: -73.9857},
		time.Date(2025, 1, 2, 4, 0, 0, 0, time.FixedZone("X", 7200)))
	if err := records.Overwrite(ctx, u.ID, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := records.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got.Address != "Empire State Building" || *got.Coordinate != *second.Coordinate {
		t.Fatalf("record = %+v, want second write", got)
	}
	if !got.VerifiedAt.Equal(*second.VerifiedAt) || got.VerifiedAt.Location() != time.UTC {
		t.Fatalf("verified at = %v, want %v UTC", got.VerifiedAt, second.VerifiedAt)
	}

	if err := records.Overwrite(ctx, uuid.New(), first); !errors.Is(err, types.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if err := records.Overwrite(ctx, u.ID, models.LocationRecord{}); err == nil {
		t.Fatalf("incomplete record accepted")
	}
}
