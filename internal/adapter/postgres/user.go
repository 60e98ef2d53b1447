package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const backend = "postgres"

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// CreateUser inserts u. A zero ID is replaced by a new UUID; an existing email is left untouched
// and its id is written back to u.
func (r *UserRepo) CreateUser(ctx context.Context, u *models.User) (err error) {
	const op = "UserRepo.CreateUser"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "create_user", err, time.Since(start))
	}(time.Now())

	if u == nil {
		return errors.New("nil user")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	const q = `
		INSERT INTO users (id, username, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id, created_at;
	`

	if err = TxorDB(ctx, r.db).QueryRow(ctx, q, u.ID, u.Username, u.Email).Scan(&u.ID, &u.CreatedAt); err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return nil
}

// GetUserByID fetches by UUID id. Returns types.ErrUserNotFound when there is no such user.
func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (_ *models.User, err error) {
	const op = "UserRepo.GetUserByID"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "get_user", ignoreNotFound(err), time.Since(start))
	}(time.Now())

	const q = `
		SELECT id, username, email, created_at
		FROM users
		WHERE id = $1;
	`

	var u models.User
	err = TxorDB(ctx, r.db).QueryRow(ctx, q, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return &u, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, types.ErrUserNotFound) {
		return nil
	}
	return err
}
