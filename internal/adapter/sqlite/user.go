package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
	"github.com/google/uuid"
)

const (
	backend    = "sqlite"
	timeLayout = time.RFC3339Nano
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts u. A zero ID is replaced by a new UUID.
func (r *UserRepo) CreateUser(ctx context.Context, u *models.User) (err error) {
	const op = "sqlite.UserRepo.CreateUser"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "create_user", err, time.Since(start))
	}(time.Now())

	if u == nil {
		return errors.New("nil user")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	const q = `INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?);`
	if _, err = r.db.ExecContext(ctx, q, u.ID.String(), u.Username, u.Email, u.CreatedAt.UTC().Format(timeLayout)); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (_ *models.User, err error) {
	const op = "sqlite.UserRepo.GetUserByID"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "get_user", ignoreNotFound(err), time.Since(start))
	}(time.Now())

	const q = `SELECT id, username, email, created_at FROM users WHERE id = ?;`

	var (
		u         models.User
		rawID     string
		createdAt string
	)
	err = r.db.QueryRowContext(ctx, q, id.String()).Scan(&rawID, &u.Username, &u.Email, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if u.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("%s: parse id: %w", op, err)
	}
	if u.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("%s: parse created_at: %w", op, err)
	}

	return &u, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, types.ErrUserNotFound) {
		return nil
	}
	return err
}
