package proximity

import (
	"math"
	"testing"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
)

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
		want float64
		tol  float64
	}{
		{
			name: "flinders peak to buninyong",
			a:    models.Coordinate{Latitude: -37.95103341666667, Longitude: 144.42486788888889},
			b:    models.Coordinate{Latitude: -37.65282113888889, Longitude: 143.92649552777777},
			want: 54972.271,
			tol:  0.01,
		},
		{
			name: "one degree of longitude on the equator",
			a:    models.Coordinate{Latitude: 0, Longitude: 0},
			b:    models.Coordinate{Latitude: 0, Longitude: 1},
			want: 111319.4908,
			tol:  0.01,
		},
		{
			name: "one degree of latitude from the equator",
			a:    models.Coordinate{Latitude: 0, Longitude: 0},
			b:    models.Coordinate{Latitude: 1, Longitude: 0},
			want: 110574.39,
			tol:  0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("Distance() = %.4f, want %.4f (±%v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceIdentity(t *testing.T) {
	points := []models.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 40.758, Longitude: -73.9855},
		{Latitude: -90, Longitude: 0},
		{Latitude: 90, Longitude: 180},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Fatalf("Distance(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{{Latitude: 40.758, Longitude: -73.9855}, {Latitude: 40.7484, Longitude: -73.9857}},
		{{Latitude: 51.5007, Longitude: -0.1246}, {Latitude: 48.8584, Longitude: 2.2945}},
		{{Latitude: -33.8568, Longitude: 151.2153}, {Latitude: 35.6586, Longitude: 139.7454}},
		{{Latitude: 10, Longitude: 179.9}, {Latitude: 10, Longitude: -179.9}},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1])
		ba := Distance(p[1], p[0])
		if ab != ba {
			t.Fatalf("Distance not symmetric: %v vs %v", ab, ba)
		}
		if ab <= 0 {
			t.Fatalf("Distance(%v, %v) = %v, want > 0", p[0], p[1], ab)
		}
	}
}

func TestDistanceNearAntipodalIsFinite(t *testing.T) {
	a := models.Coordinate{Latitude: 0, Longitude: 0}
	b := models.Coordinate{Latitude: 0.5, Longitude: 179.7}

	d := Distance(a, b)
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		t.Fatalf("Distance() = %v, want finite positive value", d)
	}
	// half of the equatorial circumference bounds any geodesic
	if d > math.Pi*semiMajorAxis {
		t.Fatalf("Distance() = %v exceeds half circumference", d)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		distance float64
		want     types.ProductivityStatus
	}{
		{0, types.StatusGreen},
		{150, types.StatusGreen},
		{199.99, types.StatusGreen},
		{200, types.StatusYellow},
		{500, types.StatusYellow},
		{999.99, types.StatusYellow},
		{1000, types.StatusRed},
		{5000, types.StatusRed},
	}

	for _, tt := range tests {
		if got := Classify(tt.distance); got != tt.want {
			t.Fatalf("Classify(%v) = %s, want %s", tt.distance, got, tt.want)
		}
	}
}

func TestClassifyDetailsExclusive(t *testing.T) {
	for _, d := range []float64{0, 199.99, 200, 999.99, 1000, 1e7} {
		details := Classify(d).Details()
		n := 0
		for _, v := range []bool{details.AtLocation, details.Nearby, details.FarAway} {
			if v {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("Classify(%v).Details() = %+v, want exactly one flag set", d, details)
		}
	}
}
