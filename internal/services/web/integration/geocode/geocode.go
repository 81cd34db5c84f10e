// Package geocode resolves free-text places and coordinates through a
// Nominatim-compatible service, caching answers in the web cache store.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/louisbranch/fleettrack/internal/platform/timeouts"
	apperrors "github.com/louisbranch/fleettrack/internal/services/web/platform/errors"
	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "fleettrack-web/1.0"
	cacheScope       = "geocode"
	defaultCacheTTL  = 24 * time.Hour
	searchLimit      = 5
	maxResponseBytes = 1 << 20
)

// Place is one geocoding answer.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Config configures a Client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// Cache is optional.
	Cache     webstorage.CacheStore
	CacheTTL  time.Duration
	Transport http.RoundTripper
	Now       func() time.Time
}

// Client calls the geocoding service.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     webstorage.CacheStore
	cacheTTL  time.Duration
	now       func() time.Time
}

// New builds a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("geocoder url must be http or https, got %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = timeouts.Geocode
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{
		baseURL:   base,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		http:      &http.Client{Timeout: cfg.Timeout, Transport: otelhttp.NewTransport(cfg.Transport)},
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		now:       cfg.Now,
	}, nil
}

// Search resolves free text to up to five places.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return nil, apperrors.EK(apperrors.KindInvalidInput, "web.track.error_query_required", "search text is required")
	}
	key := "geocode:search:" + strings.ToLower(query)
	var places []Place
	if c.cached(ctx, key, &places) {
		return places, nil
	}

	values := url.Values{
		"format": {"jsonv2"},
		"q":      {query},
		"limit":  {strconv.Itoa(searchLimit)},
	}
	body, err := c.fetch(ctx, "/search", values)
	if err != nil {
		return nil, err
	}
	places = make([]Place, 0, searchLimit)
	for _, item := range body.Array() {
		if place, ok := adaptPlace(item); ok {
			places = append(places, place)
		}
	}
	c.store(ctx, key, places)
	return places, nil
}

// Reverse resolves coordinates to the nearest place name.
func (c *Client) Reverse(ctx context.Context, lat float64, lng float64) (Place, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Place{}, apperrors.EK(apperrors.KindInvalidInput, "web.track.error_coordinates", "coordinates are out of range")
	}
	key := fmt.Sprintf("geocode:reverse:%.5f,%.5f", lat, lng)
	var place Place
	if c.cached(ctx, key, &place) {
		return place, nil
	}

	values := url.Values{
		"format": {"jsonv2"},
		"lat":    {strconv.FormatFloat(lat, 'f', 6, 64)},
		"lon":    {strconv.FormatFloat(lng, 'f', 6, 64)},
	}
	body, err := c.fetch(ctx, "/reverse", values)
	if err != nil {
		return Place{}, err
	}
	place, ok := adaptPlace(body)
	if !ok {
		return Place{}, apperrors.EK(apperrors.KindNotFound, "web.track.error_no_place", "no place found at these coordinates")
	}
	c.store(ctx, key, place)
	return place, nil
}

func (c *Client) fetch(ctx context.Context, path string, values url.Values) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+values.Encode(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, context.Canceled) {
			return gjson.Result{}, ctxErr
		}
		return gjson.Result{}, apperrors.Wrap(apperrors.KindUnavailable, "web.track.error_geocoder_unavailable", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, apperrors.Wrap(apperrors.KindUnavailable, "web.track.error_geocoder_unavailable", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, apperrors.Backend(resp.StatusCode, "geocoding failed: "+resp.Status)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, apperrors.Backend(http.StatusBadGateway, "geocoding returned an unreadable answer")
	}
	return gjson.ParseBytes(raw), nil
}

// adaptPlace reads a Nominatim result; lat and lon arrive as strings.
func adaptPlace(value gjson.Result) (Place, bool) {
	if !value.IsObject() || value.Get("error").Exists() {
		return Place{}, false
	}
	lat := value.Get("lat")
	lng := value.Get("lon")
	if !lat.Exists() || !lng.Exists() {
		return Place{}, false
	}
	name := strings.TrimSpace(value.Get("display_name").String())
	if name == "" {
		name = strings.TrimSpace(value.Get("name").String())
	}
	return Place{Name: name, Lat: lat.Float(), Lng: lng.Float()}, true
}

func (c *Client) cached(ctx context.Context, key string, target any) bool {
	if c.cache == nil {
		return false
	}
	entry, found, err := c.cache.GetCacheEntry(ctx, key)
	if err != nil {
		log.Printf("web: geocode cache read key=%s err=%v", key, err)
		return false
	}
	if !found {
		return false
	}
	return json.Unmarshal(entry.PayloadBytes, target) == nil
}

func (c *Client) store(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	now := c.now()
	if err := c.cache.PutCacheEntry(ctx, webstorage.CacheEntry{
		CacheKey:     key,
		Scope:        cacheScope,
		PayloadBytes: payload,
		RefreshedAt:  now,
		ExpiresAt:    now.Add(c.cacheTTL),
	}); err != nil {
		log.Printf("web: geocode cache write key=%s err=%v", key, err)
	}
}
