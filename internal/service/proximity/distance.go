package proximity

import (
	"math"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
)

// WGS-84 ellipsoid
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
	semiMinorAxis = (1 - flattening) * semiMajorAxis

	earthRadiusM = 6371008.8 // mean radius, used by the haversine fallback

	maxIterations = 200
	tolerance     = 1e-12
)

// Distance returns the geodesic distance in meters between a and b using
// the Vincenty inverse formula on the WGS-84 ellipsoid.
// Distance(a, b) == Distance(b, a) and Distance(a, a) == 0.
func Distance(a, b models.Coordinate) float64 {
	if a == b {
		return 0
	}
	// same input order for both directions keeps the result bit-identical
	if less(b, a) {
		a, b = b, a
	}

	d, ok := vincenty(a, b)
	if !ok {
		return haversine(a, b)
	}
	return d
}

func less(a, b models.Coordinate) bool {
	if a.Latitude != b.Latitude {
		return a.Latitude < b.Latitude
	}
	return a.Longitude < b.Longitude
}

// vincenty reports false when the iteration does not converge (nearly antipodal points).
func vincenty(p1, p2 models.Coordinate) (float64, bool) {
	L := radians(p2.Longitude - p1.Longitude)
	U1 := math.Atan((1 - flattening) * math.Tan(radians(p1.Latitude)))
	U2 := math.Atan((1 - flattening) * math.Tan(radians(p2.Latitude)))

	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	lambda := L
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64
	converged := false

	for i := 0; i < maxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		sinSigma = math.Sqrt((cosU2*sinLambda)*(cosU2*sinLambda) +
			(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			return 0, true // coincident
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			cos2SigmaM = 0 // equatorial line
		}

		C := flattening / 16 * cosSqAlpha * (4 + flattening*(4-3*cosSqAlpha))
		prev := lambda
		lambda = L + (1-C)*flattening*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < tolerance {
			converged = true
			break
		}
	}

	if !converged {
		return 0, false
	}

	uSq := cosSqAlpha * (semiMajorAxis*semiMajorAxis - semiMinorAxis*semiMinorAxis) / (semiMinorAxis * semiMinorAxis)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	s := semiMinorAxis * A * (sigma - deltaSigma)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, false
	}
	return s, true
}

// haversine distance in meters on a sphere with the mean earth radius.
func haversine(p1, p2 models.Coordinate) float64 {
	dLat := radians(p2.Latitude - p1.Latitude)
	dLng := radians(p2.Longitude - p1.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(p1.Latitude))*math.Cos(radians(p2.Latitude))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
