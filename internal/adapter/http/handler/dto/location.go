package dto

import (
	"strings"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/pkg/validator"
	"github.com/google/uuid"
)

const maxAddressLength = 512

// VerifyLocationReq is the body of POST /location/verify.
// Pointers tell a missing field apart from a zero coordinate.
type VerifyLocationReq struct {
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	TargetAddress *string  `json:"target_address"`
}

func (r *VerifyLocationReq) Validate(v *validator.Validator) {
	// Lat
	v.Check(r.Lat != nil, "lat", "must be provided")
	if r.Lat != nil {
		v.Check(*r.Lat >= -90 && *r.Lat <= 90, "lat", "must be between -90 and 90")
	}

	// Lng
	v.Check(r.Lng != nil, "lng", "must be provided")
	if r.Lng != nil {
		v.Check(*r.Lng >= -180 && *r.Lng <= 180, "lng", "must be between -180 and 180")
	}

	// Target address
	v.Check(r.TargetAddress != nil && validator.NotBlank(*r.TargetAddress), "target_address", "must be provided")
	if r.TargetAddress != nil {
		v.Check(len(*r.TargetAddress) <= maxAddressLength, "target_address", "must not be more than 512 bytes")
	}
}

func (r *VerifyLocationReq) Coordinate() models.Coordinate {
	return models.Coordinate{Latitude: *r.Lat, Longitude: *r.Lng}
}

func (r *VerifyLocationReq) Address() string {
	return strings.TrimSpace(*r.TargetAddress)
}

// HistoryUser is the user object of GET /location/history.
// Location fields are null until the first successful verification.
type HistoryUser struct {
	ID                      uuid.UUID          `json:"id"`
	Username                string             `json:"username"`
	LastVerifiedLocation    *string            `json:"last_verified_location"`
	LastVerifiedCoordinates *models.Coordinate `json:"last_verified_coordinates"`
	LastVerificationTime    *time.Time         `json:"last_verification_time"`
}

func NewHistoryUser(h *models.LocationHistory) HistoryUser {
	return HistoryUser{
		ID:                      h.User.ID,
		Username:                h.User.Username,
		LastVerifiedLocation:    h.Record.Address,
		LastVerifiedCoordinates: h.Record.Coordinate,
		LastVerificationTime:    h.Record.VerifiedAt,
	}
}
