package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// Result is a country centroid.
type Result struct {
	Lat float64
	Lon float64
}

// Resolver turns a country name into a centroid. ok=false means the service
// answered but knows no such place; err means the lookup itself failed. The
// two are deliberately distinct so callers can log transport failures
// without treating "unknown country" as an error.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Result, bool, error)
}

// Disabled is the no-lookup resolver used when external calls are not
// permitted.
type Disabled struct{}

func (Disabled) Resolve(context.Context, string) (Result, bool, error) {
	return Result{}, false, nil
}

type HTTPResolver struct {
	endpoint string
	client   *http.Client
	log      *logger.Logger
}

// NewHTTPResolver talks to a Nominatim-style search endpoint returning
// [{"lat": "...", "lon": "..."}].
func NewHTTPResolver(endpoint string, baseLog *logger.Logger) *HTTPResolver {
	return &HTTPResolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      baseLog.With("service", "HTTPResolver"),
	}
}

func (r *HTTPResolver) Resolve(ctx context.Context, name string) (Result, bool, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Result{}, false, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, false, fmt.Errorf("geocode %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, false, fmt.Errorf("geocode %q: unexpected status %d", name, resp.StatusCode)
	}

	var hits []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return Result{}, false, fmt.Errorf("decode geocode response for %q: %w", name, err)
	}
	if len(hits) == 0 {
		return Result{}, false, nil
	}

	lat, latErr := strconv.ParseFloat(hits[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(hits[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return Result{}, false, fmt.Errorf("geocode %q: malformed coordinates in response", name)
	}
	return Result{Lat: lat, Lon: lon}, true, nil
}
