package proximity

import "github.com/Temutjin2k/pivot-location/internal/domain/types"

// Thresholds in meters. Each lower bound is inclusive.
const (
	NearbyThreshold  = 200.0
	FarAwayThreshold = 1000.0
)

// Classify maps a distance in meters to a productivity status.
func Classify(distanceMeters float64) types.ProductivityStatus {
	switch {
	case distanceMeters < NearbyThreshold:
		return types.StatusGreen
	case distanceMeters < FarAwayThreshold:
		return types.StatusYellow
	default:
		return types.StatusRed
	}
}
