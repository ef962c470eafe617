package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
)

func testClient(serverURL string) *Client {
	cfg := DefaultClientConfig()
	cfg.BaseURL = serverURL
	cfg.Timeout = 2 * time.Second
	// Keep tests fast.
	cfg.RateLimiterConfig = RateLimiterConfig{
		RequestsPerSecond: 100,
		BurstSize:         10,
		MinInterval:       time.Millisecond,
		WaitTimeout:       time.Second,
	}
	return NewClient(cfg)
}

func TestClient_Geocode(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"city":    r.URL.Query().Get("city"),
			"country": r.URL.Query().Get("country"),
			"format":  r.URL.Query().Get("format"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"7.0731","lon":"125.6128","display_name":"Davao City, Philippines"}]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	coords, err := client.Geocode(context.Background(), "Davao City", "Philippines")
	require.NoError(t, err)

	assert.InDelta(t, 7.0731, coords.Lat, 0.0001)
	assert.InDelta(t, 125.6128, coords.Lng, 0.0001)
	assert.Equal(t, "Davao City", gotQuery["city"])
	assert.Equal(t, "Philippines", gotQuery["country"])
	assert.Equal(t, "jsonv2", gotQuery["format"])
}

func TestClient_Geocode_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat":"1","lon":"2"}]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Geocode(context.Background(), "Singapore", "")
	require.NoError(t, err)
	assert.Equal(t, "erio-dashboard/1.0", gotUA)
}

func TestClient_Geocode_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Geocode(context.Background(), "Nowheresville", "Atlantis")
	assert.ErrorIs(t, err, shared.ErrGeocodeNoResult)
}

func TestClient_Geocode_EmptyCity(t *testing.T) {
	client := testClient("http://unused.invalid")
	_, err := client.Geocode(context.Background(), "", "Philippines")
	assert.ErrorIs(t, err, shared.ErrGeocodeNoResult)
}

func TestClient_Geocode_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Geocode(context.Background(), "Davao City", "Philippines")
	assert.ErrorIs(t, err, shared.ErrGeocodeInvalidResponse)
}

func TestClient_Geocode_OutOfRangeCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"999","lon":"125.6"}]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Geocode(context.Background(), "Davao City", "Philippines")
	assert.ErrorIs(t, err, shared.ErrGeocodeInvalidResponse)
}

func TestClient_Geocode_RetriesServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"lat":"7.07","lon":"125.61"}]`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	coords, err := client.Geocode(context.Background(), "Davao City", "Philippines")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.InDelta(t, 7.07, coords.Lat, 0.001)
}

func TestRateLimiter_EnforcesMinInterval(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 100,
		BurstSize:         10,
		MinInterval:       50 * time.Millisecond,
		WaitTimeout:       time.Second,
	})

	assert.True(t, rl.TryAllow())
	assert.False(t, rl.TryAllow(), "second request inside the min interval should be denied")

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.TryAllow())
}

func TestRateLimiter_RecordRateLimitHitEmptiesBucket(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.1,
		BurstSize:         5,
		MinInterval:       0,
		WaitTimeout:       time.Second,
	})

	rl.RecordRateLimitHit()
	assert.False(t, rl.TryAllow())

	rl.Reset()
	assert.True(t, rl.TryAllow())
}
