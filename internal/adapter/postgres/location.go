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

// LocationRecordRepo keeps the last verified location in the users row.
type LocationRecordRepo struct {
	db *pgxpool.Pool
}

func NewLocationRecordRepo(db *pgxpool.Pool) *LocationRecordRepo {
	return &LocationRecordRepo{
		db: db,
	}
}

func (r *LocationRecordRepo) Get(ctx context.Context, userID uuid.UUID) (_ models.LocationRecord, err error) {
	const op = "LocationRecordRepo.Get"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "get_location", ignoreNotFound(err), time.Since(start))
	}(time.Now())

	const q = `
		SELECT last_verified_location, last_verified_lat, last_verified_lng, last_verification_time
		FROM users
		WHERE id = $1;
	`

	var (
		address  *string
		lat, lng *float64
		at       *time.Time
	)
	err = TxorDB(ctx, r.db).QueryRow(ctx, q, userID).Scan(&address, &lat, &lng, &at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LocationRecord{}, types.ErrUserNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return models.LocationRecord{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	// partially filled rows are treated as never verified
	if address == nil || lat == nil || lng == nil || at == nil {
		return models.LocationRecord{}, nil
	}

	return models.NewLocationRecord(*address, models.Coordinate{Latitude: *lat, Longitude: *lng}, *at), nil
}

// Overwrite replaces all four columns in one statement.
func (r *LocationRecordRepo) Overwrite(ctx context.Context, userID uuid.UUID, record models.LocationRecord) (err error) {
	const op = "LocationRecordRepo.Overwrite"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "overwrite_location", err, time.Since(start))
	}(time.Now())

	if record.IsEmpty() {
		return fmt.Errorf("%s: incomplete record", op)
	}

	const q = `
		UPDATE users
		SET last_verified_location = $2,
			last_verified_lat = $3,
			last_verified_lng = $4,
			last_verification_time = $5
		WHERE id = $1;
	`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, q,
		userID,
		*record.Address,
		record.Coordinate.Latitude,
		record.Coordinate.Longitude,
		record.VerifiedAt.UTC(),
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
