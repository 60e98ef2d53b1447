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

// LocationRecordRepo keeps the last verified location in the users row.
type LocationRecordRepo struct {
	db *sql.DB
}

func NewLocationRecordRepo(db *sql.DB) *LocationRecordRepo {
	return &LocationRecordRepo{db: db}
}

func (r *LocationRecordRepo) Get(ctx context.Context, userID uuid.UUID) (_ models.LocationRecord, err error) {
	const op = "sqlite.LocationRecordRepo.Get"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "get_location", ignoreNotFound(err), time.Since(start))
	}(time.Now())

	const q = `
		SELECT last_verified_location, last_verified_lat, last_verified_lng, last_verification_time
		FROM users
		WHERE id = ?;`

	var (
		address  sql.NullString
		lat, lng sql.NullFloat64
		at       sql.NullString
	)
	err = r.db.QueryRowContext(ctx, q, userID.String()).Scan(&address, &lat, &lng, &at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LocationRecord{}, types.ErrUserNotFound
		}
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return models.LocationRecord{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	if !address.Valid || !lat.Valid || !lng.Valid || !at.Valid {
		return models.LocationRecord{}, nil
	}

	verifiedAt, err := time.Parse(timeLayout, at.String)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("%s: parse verification time: %w", op, err)
	}

	return models.NewLocationRecord(address.String, models.Coordinate{Latitude: lat.Float64, Longitude: lng.Float64}, verifiedAt), nil
}

// Overwrite replaces all four columns in one statement.
func (r *LocationRecordRepo) Overwrite(ctx context.Context, userID uuid.UUID, record models.LocationRecord) (err error) {
	const op = "sqlite.LocationRecordRepo.Overwrite"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "overwrite_location", err, time.Since(start))
	}(time.Now())

	if record.IsEmpty() {
		return fmt.Errorf("%s: incomplete record", op)
	}

	const q = `
		UPDATE users
		SET last_verified_location = ?,
			last_verified_lat = ?,
			last_verified_lng = ?,
			last_verification_time = ?
		WHERE id = ?;`

	res, err := r.db.ExecContext(ctx, q,
		*record.Address,
		record.Coordinate.Latitude,
		record.Coordinate.Longitude,
		record.VerifiedAt.UTC().Format(timeLayout),
		userID.String(),
	)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return types.ErrUserNotFound
	}

	return nil
}
