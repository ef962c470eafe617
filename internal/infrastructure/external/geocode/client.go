// Package geocode implements the Nominatim geocoding client.
// New partner universities entered without map coordinates get their city
// resolved to a lat/lng pin through the OpenStreetMap Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/circuitbreaker"
	"github.com/erio-hub/erio-dashboard/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the Nominatim endpoint (default: the public OSM instance)
	BaseURL string

	// UserAgent identifies this application, required by the Nominatim
	// usage policy
	UserAgent string

	// Email is included in requests so OSM operators can reach out about
	// problematic traffic (optional but recommended)
	Email string

	// Timeout is the HTTP request timeout
	Timeout time.Duration

	// RateLimiterConfig for API rate limiting
	RateLimiterConfig RateLimiterConfig

	// Logger for structured logging
	Logger *slog.Logger

	// Debug enables debug logging
	Debug bool
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:           "https://nominatim.openstreetmap.org",
		UserAgent:         "erio-dashboard/1.0",
		Timeout:           10 * time.Second,
		RateLimiterConfig: DefaultRateLimiterConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Nominatim geocoding client. It implements command.Geocoder.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	logger      *slog.Logger
	rateLimiter *RateLimiter
	breaker     *circuitbreaker.CircuitBreaker
	retrier     *retry.Retrier
}

// NewClient creates a new Nominatim client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultClientConfig().BaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultClientConfig().UserAgent
	}

	log := config.Logger
	breaker := circuitbreaker.New("nominatim",
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("geocoding circuit state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		}),
	)

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:      log,
		rateLimiter: NewRateLimiter(config.RateLimiterConfig),
		breaker:     breaker,
		retrier:     retry.GeocodingRetrier(),
	}
}

// searchResult is one entry of the Nominatim /search response. Coordinates
// come back as strings.
type searchResult struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

// Geocode resolves a city/country pair to map coordinates. The first (most
// important) match wins.
func (c *Client) Geocode(ctx context.Context, city, country string) (shared.Coordinates, error) {
	if city == "" {
		return shared.Coordinates{}, shared.ErrGeocodeNoResult
	}

	var coords shared.Coordinates
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.breaker.Execute(ctx, func(ctx context.Context) error {
			var err error
			coords, err = c.search(ctx, city, country)
			return err
		})
	})
	if err != nil {
		return shared.Coordinates{}, err
	}

	return coords, nil
}

// search performs a single /search request.
func (c *Client) search(ctx context.Context, city, country string) (shared.Coordinates, error) {
	if err := c.rateLimiter.Allow(ctx); err != nil {
		return shared.Coordinates{}, retry.Retryable(shared.WrapError("geocode", "Request", shared.ErrRateLimited, "local rate limit", err))
	}

	params := url.Values{}
	params.Set("city", city)
	if country != "" {
		params.Set("country", country)
	}
	params.Set("format", "jsonv2")
	params.Set("limit", "1")
	if c.config.Email != "" {
		params.Set("email", c.config.Email)
	}

	fullURL := c.config.BaseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return shared.Coordinates{}, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	if c.config.Debug {
		c.logger.Debug("nominatim request", "city", city, "country", country)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return shared.Coordinates{}, retry.Retryable(shared.WrapError("geocode", "Request", shared.ErrServiceUnavailable, "http request failed", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return shared.Coordinates{}, retry.Retryable(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.rateLimiter.RecordRateLimitHit()
		return shared.Coordinates{}, retry.Retryable(shared.ErrGeocodeRateLimited)
	}
	if resp.StatusCode >= 500 {
		return shared.Coordinates{}, retry.Retryable(shared.WrapError("geocode", "Request", shared.ErrServiceUnavailable,
			fmt.Sprintf("nominatim returned status %d", resp.StatusCode), nil))
	}
	if resp.StatusCode != http.StatusOK {
		return shared.Coordinates{}, retry.Permanent(shared.WrapError("geocode", "Request", shared.ErrInvalidFormat,
			fmt.Sprintf("nominatim returned status %d", resp.StatusCode), nil))
	}

	var results []searchResult
	if err := json.Unmarshal(respBody, &results); err != nil {
		return shared.Coordinates{}, retry.Permanent(shared.ErrGeocodeInvalidResponse)
	}
	if len(results) == 0 {
		return shared.Coordinates{}, retry.Permanent(shared.ErrGeocodeNoResult)
	}

	coords, err := parseCoordinates(results[0])
	if err != nil {
		return shared.Coordinates{}, retry.Permanent(err)
	}
	return coords, nil
}

// parseCoordinates converts Nominatim's string lat/lon into coordinates.
func parseCoordinates(r searchResult) (shared.Coordinates, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return shared.Coordinates{}, shared.ErrGeocodeInvalidResponse
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return shared.Coordinates{}, shared.ErrGeocodeInvalidResponse
	}

	coords := shared.Coordinates{Lat: lat, Lng: lng}
	if !coords.IsValid() {
		return shared.Coordinates{}, shared.ErrGeocodeInvalidResponse
	}
	return coords, nil
}
