// Package geocode resolves free-text addresses to coordinates through a
// Nominatim-compatible search API.
package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/Cheertaboi/restaurant-storefront/internal/cache"
	"github.com/Cheertaboi/restaurant-storefront/internal/models"
)

// ErrNotFound is returned when the provider has no match for the address.
var ErrNotFound = errors.New("address not found")

// Geocoder converts an address into a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinate, error)
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func New(baseURL, userAgent string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      httpClient,
	}
}

type searchHit struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return models.Coordinate{}, errors.Wrap(err, "build geocode request")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Coordinate{}, errors.Wrap(err, "geocode request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return models.Coordinate{}, errors.Errorf("geocode endpoint %d: %s", resp.StatusCode, string(b))
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return models.Coordinate{}, errors.Wrap(err, "decode geocode response")
	}
	if len(hits) == 0 {
		return models.Coordinate{}, ErrNotFound
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return models.Coordinate{}, errors.Wrap(err, "parse lat")
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return models.Coordinate{}, errors.Wrap(err, "parse lon")
	}
	return models.Coordinate{Lat: lat, Lng: lng}, nil
}

// Cached fronts a Geocoder with a TTL cache keyed by the normalized address.
// Misses and errors are not cached.
type Cached struct {
	next  Geocoder
	cache *cache.TTLCache[models.Coordinate]
}

func NewCached(next Geocoder, c *cache.TTLCache[models.Coordinate]) *Cached {
	return &Cached{next: next, cache: c}
}

func (c *Cached) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	key := normalize(address)
	if coord, ok := c.cache.Get(key); ok {
		return coord, nil
	}
	coord, err := c.next.Geocode(ctx, address)
	if err != nil {
		return models.Coordinate{}, err
	}
	c.cache.Set(key, coord)
	return coord, nil
}

func normalize(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
