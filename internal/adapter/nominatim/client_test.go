package nominatim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) (*Client, *int32) {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return New(Config{BaseURL: srv.URL, Timeout: timeout}), &calls
}

func TestResolveSuccess(t *testing.T) {
	var gotQuery, gotFormat, gotLimit, gotPath string
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotFormat = r.URL.Query().Get("format")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Times Square, Manhattan, New York","lat":"40.7580","lon":"-73.9855"},{"display_name":"other","lat":"1","lon":"1"}]`))
	}, time.Second)

	res, err := client.Resolve(context.Background(), "  Times Square & 7th Ave, NYC ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.CanonicalAddress != "Times Square, Manhattan, New York" {
		t.Fatalf("address = %q", res.CanonicalAddress)
	}
	if res.Coordinate.Latitude != 40.7580 || res.Coordinate.Longitude != -73.9855 {
		t.Fatalf("coordinate = %+v", res.Coordinate)
	}
	if gotPath != "/search" {
		t.Fatalf("path = %q, want /search", gotPath)
	}
	if gotQuery != "Times Square & 7th Ave, NYC" {
		t.Fatalf("query = %q", gotQuery)
	}
	if gotFormat != "json" || gotLimit != "1" {
		t.Fatalf("format = %q, limit = %q", gotFormat, gotLimit)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestResolveSendsAPIKey(t *testing.T) {
	var key string
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		key = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`[{"display_name":"x","lat":"1.5","lon":"2.5"}]`))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL + "/v1", APIKey: "secret", Provider: string(types.ProviderLocationIQ)})
	if _, err := client.Resolve(context.Background(), "somewhere"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "secret" {
		t.Fatalf("key = %q, want secret", key)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "empty result list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			},
			wantErr: types.ErrAddressNotFound,
		},
		{
			name: "not found status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
			},
			wantErr: types.ErrAddressNotFound,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: types.ErrGeocodeUnavailable,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantErr: types.ErrGeocodeUnavailable,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			wantErr: types.ErrGeocodeUnavailable,
		},
		{
			name: "bad latitude",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[{"display_name":"x","lat":"north","lon":"2"}]`))
			},
			wantErr: types.ErrGeocodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := newTestClient(t, tt.handler, time.Second)

			_, err := client.Resolve(context.Background(), "Nowhere Street")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if n := atomic.LoadInt32(calls); n != 1 {
				t.Fatalf("calls = %d, want exactly 1 (no retries)", n)
			}
		})
	}
}

func TestResolveTimeout(t *testing.T) {
	release := make(chan struct{})
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := client.Resolve(context.Background(), "slow street")
	if !errors.Is(err, types.ErrGeocodeUnavailable) {
		t.Fatalf("err = %v, want ErrGeocodeUnavailable", err)
	}
	if errors.Is(err, types.ErrAddressNotFound) {
		t.Fatalf("timeout must not look like not found")
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestResolveEmptyAddress(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, time.Second)

	_, err := client.Resolve(context.Background(), "   ")
	if !errors.Is(err, types.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Fatalf("calls = %d, want 0", n)
	}
}

func TestNewDefaultsBaseURLPerProvider(t *testing.T) {
	if c := New(Config{}); c.baseURL != DefaultBaseURL {
		t.Fatalf("nominatim base url = %s", c.baseURL)
	}
	if c := New(Config{Provider: string(types.ProviderLocationIQ)}); c.baseURL != DefaultLocationIQURL {
		t.Fatalf("locationiq base url = %s", c.baseURL)
	}
}
