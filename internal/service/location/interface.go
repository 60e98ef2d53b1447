package location

import (
	"context"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/google/uuid"
)

type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.GeocodeResult, error)
}

// LocationRecordRepo is the single-slot store of the last verified location per user.
type LocationRecordRepo interface {
	// Get returns an empty record when the user was never verified.
	Get(ctx context.Context, userID uuid.UUID) (models.LocationRecord, error)
	// Overwrite atomically replaces all fields of the record.
	Overwrite(ctx context.Context, userID uuid.UUID, record models.LocationRecord) error
}

type UserRepo interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type EventPublisher interface {
	PublishLocationVerified(ctx context.Context, event models.LocationVerifiedEvent) error
}

// Notifier pushes verification results to connected clients.
type Notifier interface {
	NotifyLocationVerified(ctx context.Context, event models.LocationVerifiedEvent) error
}
