package models

import (
	"math"
	"time"
)

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are finite and inside their ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// GeocodeResult is the best match returned by a geocoding provider.
type GeocodeResult struct {
	CanonicalAddress string
	Coordinate       Coordinate
}

// LocationRecord is the single-slot last verified location of a user.
// Address, Coordinate and VerifiedAt are either all nil or all set.
type LocationRecord struct {
	Address    *string
	Coordinate *Coordinate
	VerifiedAt *time.Time
}

func NewLocationRecord(address string, coordinate Coordinate, verifiedAt time.Time) LocationRecord {
	verifiedAt = verifiedAt.UTC()
	return LocationRecord{
		Address:    &address,
		Coordinate: &coordinate,
		VerifiedAt: &verifiedAt,
	}
}

// IsEmpty reports whether the user has never been verified.
func (r LocationRecord) IsEmpty() bool {
	return r.Address == nil || r.Coordinate == nil || r.VerifiedAt == nil
}

// LocationHistory is the view served by the history endpoint.
type LocationHistory struct {
	User   User
	Record LocationRecord
}
