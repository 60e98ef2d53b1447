package models

import (
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/google/uuid"
)

// VerificationOutcome is the transient result of one verification request.
// DistanceMeters is unrounded; presentation layers round it for display.
type VerificationOutcome struct {
	UserID             uuid.UUID
	Status             types.ProductivityStatus
	DistanceMeters     float64
	VerifiedAddress    string
	VerifiedCoordinate Coordinate
	Proximity          types.ProximityDetails
	VerifiedAt         time.Time
}
