package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	backend   = "redis"
	keyPrefix = "pivot:location:"

	fieldAddress = "address"
	fieldLat     = "lat"
	fieldLng     = "lng"
	fieldTime    = "verified_at"
)

// LocationRecordRepo stores each record as one hash.
type LocationRecordRepo struct {
	client goredis.Cmdable
}

func NewLocationRecordRepo(client goredis.Cmdable) *LocationRecordRepo {
	return &LocationRecordRepo{client: client}
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (r *LocationRecordRepo) Get(ctx context.Context, userID uuid.UUID) (_ models.LocationRecord, err error) {
	const op = "redis.LocationRecordRepo.Get"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "get_location", err, time.Since(start))
	}(time.Now())

	fields, err := r.client.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return models.LocationRecord{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	if len(fields) == 0 {
		return models.LocationRecord{}, nil
	}

	rec, err := decode(fields)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// Overwrite writes all fields with a single HSET.
func (r *LocationRecordRepo) Overwrite(ctx context.Context, userID uuid.UUID, record models.LocationRecord) (err error) {
	const op = "redis.LocationRecordRepo.Overwrite"
	defer func(start time.Time) {
		metrics.RecordStoreOperation(backend, "overwrite_location", err, time.Since(start))
	}(time.Now())

	if record.IsEmpty() {
		return fmt.Errorf("%s: incomplete record", op)
	}

	err = r.client.HSet(ctx, key(userID), encode(record)).Err()
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionDatabaseTransactionFailed)
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func encode(record models.LocationRecord) map[string]any {
	return map[string]any{
		fieldAddress: *record.Address,
		fieldLat:     strconv.FormatFloat(record.Coordinate.Latitude, 'f', -1, 64),
		fieldLng:     strconv.FormatFloat(record.Coordinate.Longitude, 'f', -1, 64),
		fieldTime:    record.VerifiedAt.UTC().Format(time.RFC3339Nano),
	}
}

func decode(fields map[string]string) (models.LocationRecord, error) {
	address, ok := fields[fieldAddress]
	if !ok {
		return models.LocationRecord{}, nil
	}
	lat, err := strconv.ParseFloat(fields[fieldLat], 64)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[fieldLng], 64)
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("parse lng: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, fields[fieldTime])
	if err != nil {
		return models.LocationRecord{}, fmt.Errorf("parse verified_at: %w", err)
	}
	return models.NewLocationRecord(address, models.Coordinate{Latitude: lat, Longitude: lng}, at), nil
}
