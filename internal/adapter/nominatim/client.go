package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "pivot-location/1.0"

	// DefaultLocationIQURL is used when the provider is locationiq and no base URL is set.
	DefaultLocationIQURL = "https://us1.locationiq.com/v1"

	searchPath = "/search"
)

// outcome labels for geocode metrics
const (
	outcomeFound       = "found"
	outcomeNotFound    = "not_found"
	outcomeUnavailable = "unavailable"
)

type Config struct {
	// Provider is used as a metrics label only.
	Provider  string
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Client resolves free-text addresses through a Nominatim compatible search API
// (OpenStreetMap Nominatim or LocationIQ).
type Client struct {
	provider   string
	baseURL    string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
		if cfg.Provider == string(types.ProviderLocationIQ) {
			cfg.BaseURL = DefaultLocationIQURL
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Provider == "" {
		cfg.Provider = string(types.ProviderNominatim)
	}

	return &Client{
		provider:  cfg.Provider,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Resolve returns the best match for address.
// Exactly one request is made; failures are never retried.
func (c *Client) Resolve(ctx context.Context, address string) (models.GeocodeResult, error) {
	const op = "nominatim.Client.Resolve"
	ctx = wrap.WithAction(ctx, types.ActionGeocodeAddress)

	address = strings.TrimSpace(address)
	if address == "" {
		return models.GeocodeResult{}, wrap.Error(ctx, fmt.Errorf("%s: empty address: %w", op, types.ErrInvalidRequest))
	}

	start := time.Now()
	result, outcome, err := c.search(ctx, address)
	metrics.RecordGeocode(c.provider, outcome, time.Since(start))
	if err != nil {
		if outcome == outcomeUnavailable {
			ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		}
		return models.GeocodeResult{}, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	return result, nil
}

func (c *Client) search(ctx context.Context, address string) (models.GeocodeResult, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+query.Encode(), nil)
	if err != nil {
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: build request: %w", types.ErrGeocodeUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: %w", types.ErrGeocodeUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// LocationIQ answers 404 "Unable to geocode" when nothing matches
		return models.GeocodeResult{}, outcomeNotFound, fmt.Errorf("%q: %w", address, types.ErrAddressNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: unexpected response status %d", types.ErrGeocodeUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: decode response: %w", types.ErrGeocodeUnavailable, err)
	}

	if len(results) == 0 {
		return models.GeocodeResult{}, outcomeNotFound, fmt.Errorf("%q: %w", address, types.ErrAddressNotFound)
	}

	best := results[0]
	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: parse latitude: %w", types.ErrGeocodeUnavailable, err)
	}
	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: parse longitude: %w", types.ErrGeocodeUnavailable, err)
	}

	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return models.GeocodeResult{}, outcomeUnavailable, fmt.Errorf("%w: coordinate out of range: %v", types.ErrGeocodeUnavailable, coord)
	}

	return models.GeocodeResult{
		CanonicalAddress: best.DisplayName,
		Coordinate:       coord,
	}, outcomeFound, nil
}
