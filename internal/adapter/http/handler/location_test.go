package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/internal/service/location"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	"github.com/Temutjin2k/pivot-location/pkg/trm"
	"github.com/google/uuid"
)

type stubGeocoder struct {
	result models.GeocodeResult
	err    error
	calls  int
}

func (g *stubGeocoder) Resolve(ctx context.Context, address string) (models.GeocodeResult, error) {
	g.calls++
	return g.result, g.err
}

type memRecords map[uuid.UUID]models.LocationRecord

func (m memRecords) Get(ctx context.Context, id uuid.UUID) (models.LocationRecord, error) {
	return m[id], nil
}

func (m memRecords) Overwrite(ctx context.Context, id uuid.UUID, rec models.LocationRecord) error {
	m[id] = rec
	return nil
}

type brokenRecords struct{}

func (brokenRecords) Get(ctx context.Context, id uuid.UUID) (models.LocationRecord, error) {
	return models.LocationRecord{}, errors.New("connection refused")
}

func (brokenRecords) Overwrite(ctx context.Context, id uuid.UUID, rec models.LocationRecord) error {
	return errors.New("connection refused")
}

type memUsers map[uuid.UUID]*models.User

func (m memUsers) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, types.ErrUserNotFound
}

type testEnv struct {
	handler  *Location
	geocoder *stubGeocoder
	user     *models.User
}

func newTestEnv() *testEnv {
	user := &models.User{ID: uuid.New(), Username: "erin", Email: "erin@example.com"}
	geo := &stubGeocoder{result: models.GeocodeResult{
		CanonicalAddress: "Times Square, Manhattan, New York",
		Coordinate:       models.Coordinate{Latitude: 40.7580, Longitude: -73.9855},
	}}
	log := logger.New(io.Discard, "test", logger.LevelError)
	svc := location.New(geo, memRecords{}, memUsers{user.ID: user}, nil, nil, trm.Nop{}, log)

	return &testEnv{handler: NewLocation(svc, log), geocoder: geo, user: user}
}

func (e *testEnv) do(method, target, body string, user *models.User) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if user != nil {
		req = req.WithContext(models.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()

	switch method {
	case http.MethodPost:
		e.handler.Verify(rec, req)
	default:
		e.handler.History(rec, req)
	}

	var decoded map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestVerifySuccess(t *testing.T) {
	env := newTestEnv()

	rec, body := env.do(http.MethodPost, "/location/verify",
		`{"lat": 40.7484, "lng": -73.9857, "target_address": "Times Square, NYC"}`, env.user)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["status"] != "success" || body["productivity_status"] != "RED" {
		t.Fatalf("body = %v", body)
	}
	if body["user_id"] != env.user.ID.String() {
		t.Fatalf("user_id = %v", body["user_id"])
	}

	dist := body["distance_meters"].(float64)
	if dist < 1000 || math.Abs(dist*100-math.Round(dist*100)) > 1e-6 {
		t.Fatalf("distance_meters = %v, want >= 1000 rounded to 2 decimals", dist)
	}

	coords := body["verified_coordinates"].(map[string]any)
	if coords["latitude"] != 40.7580 || coords["longitude"] != -73.9855 {
		t.Fatalf("verified_coordinates = %v", coords)
	}
	details := body["proximity_details"].(map[string]any)
	if details["at_location"] != false || details["nearby"] != false || details["far_away"] != true {
		t.Fatalf("proximity_details = %v", details)
	}
}

func TestVerifyValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing lat", `{"lng": -73.9855, "target_address": "Times Square"}`},
		{"missing all", `{}`},
		{"lat out of range", `{"lat": 95, "lng": 0, "target_address": "x"}`},
		{"blank address", `{"lat": 1, "lng": 1, "target_address": "   "}`},
		{"wrong type", `{"lat": "40.7", "lng": 1, "target_address": "x"}`},
		{"malformed json", `{"lat": 1,`},
		{"empty body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()

			rec, body := env.do(http.MethodPost, "/location/verify", tt.body, env.user)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if body["status"] != "error" || body["message"] == "" {
				t.Fatalf("body = %v", body)
			}
			if env.geocoder.calls != 0 {
				t.Fatalf("geocoder called %d times on invalid input", env.geocoder.calls)
			}
		})
	}
}

func TestVerifyErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrAddressNotFound, http.StatusNotFound},
		{types.ErrGeocodeUnavailable, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		env := newTestEnv()
		env.geocoder.err = tt.err

		rec, body := env.do(http.MethodPost, "/location/verify", `{"lat": 1, "lng": 2, "target_address": "Nowhere"}`, env.user)
		if rec.Code != tt.want {
			t.Fatalf("%v: status = %d, want %d", tt.err, rec.Code, tt.want)
		}
		if body["status"] != "error" {
			t.Fatalf("%v: body = %v", tt.err, body)
		}
		if _, ok := body["productivity_status"]; ok {
			t.Fatalf("status must not be reported on failure")
		}
	}
}

func TestUnauthenticated(t *testing.T) {
	env := newTestEnv()

	rec, body := env.do(http.MethodPost, "/location/verify", `{"lat": 1, "lng": 2, "target_address": "x"}`, models.AnonymousUser())
	if rec.Code != http.StatusUnauthorized || body["status"] != "error" {
		t.Fatalf("verify: status = %d, body = %v", rec.Code, body)
	}

	rec, _ = env.do(http.MethodGet, "/location/history", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("history: status = %d", rec.Code)
	}
	if env.geocoder.calls != 0 {
		t.Fatalf("geocoder called for anonymous caller")
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv()

	rec, body := env.do(http.MethodGet, "/location/history", "", env.user)
	if rec.Code != http.StatusOK || body["status"] != "success" {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
	user := body["user"].(map[string]any)
	if user["id"] != env.user.ID.String() || user["username"] != "erin" {
		t.Fatalf("user = %v", user)
	}
	for _, field := range []string{"last_verified_location", "last_verified_coordinates", "last_verification_time"} {
		v, ok := user[field]
		if !ok || v != nil {
			t.Fatalf("%s = %v, want null", field, v)
		}
	}

	if rec, _ := env.do(http.MethodPost, "/location/verify", `{"lat": 40.758, "lng": -73.9855, "target_address": "Times Square"}`, env.user); rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d", rec.Code)
	}

	_, body = env.do(http.MethodGet, "/location/history", "", env.user)
	user = body["user"].(map[string]any)
	if user["last_verified_location"] != "Times Square, Manhattan, New York" {
		t.Fatalf("last_verified_location = %v", user["last_verified_location"])
	}
	coords, ok := user["last_verified_coordinates"].(map[string]any)
	if !ok || coords["latitude"] != 40.7580 {
		t.Fatalf("last_verified_coordinates = %v", user["last_verified_coordinates"])
	}
	if user["last_verification_time"] == nil {
		t.Fatalf("last_verification_time is null after verification")
	}
}

func TestHistoryStoreFailure(t *testing.T) {
	env := newTestEnv()
	log := logger.New(io.Discard, "test", logger.LevelError)
	svc := location.New(env.geocoder, brokenRecords{}, memUsers{env.user.ID: env.user}, nil, nil, trm.Nop{}, log)
	env.handler = NewLocation(svc, log)

	rec, body := env.do(http.MethodGet, "/location/history", "", env.user)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body["status"] != "error" || body["message"] != "Location store unavailable" {
		t.Fatalf("body = %v", body)
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrInvalidRequest, http.StatusBadRequest},
		{types.ErrAddressNotFound, http.StatusNotFound},
		{types.ErrUserNotFound, http.StatusNotFound},
		{types.ErrUnauthorized, http.StatusUnauthorized},
		{types.ErrGeocodeUnavailable, http.StatusInternalServerError},
		{types.ErrStoreFailure, http.StatusInternalServerError},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Fatalf("GetCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
