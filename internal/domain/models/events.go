package models

import (
	"time"

	"github.com/google/uuid"
)

// Message published after a successful verification.
type LocationVerifiedEvent struct {
	Type               string     `json:"type"`
	UserID             uuid.UUID  `json:"user_id"`
	ProductivityStatus string     `json:"productivity_status"`
	DistanceMeters     float64    `json:"distance_meters"`
	VerifiedAddress    string     `json:"verified_address"`
	VerifiedCoordinate Coordinate `json:"verified_coordinates"`
	Timestamp          time.Time  `json:"timestamp"`
}

const EventLocationVerified = "location_verified"

func NewLocationVerifiedEvent(o *VerificationOutcome) LocationVerifiedEvent {
	return LocationVerifiedEvent{
		Type:               EventLocationVerified,
		UserID:             o.UserID,
		ProductivityStatus: o.Status.String(),
		DistanceMeters:     o.DistanceMeters,
		VerifiedAddress:    o.VerifiedAddress,
		VerifiedCoordinate: o.VerifiedCoordinate,
		Timestamp:          o.VerifiedAt,
	}
}
