package airbnb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"airbnb-area-scraper/models"
)

// Collaborator failure taxonomy. Everything the remote side throws at us
// collapses into these, so callers can isolate failures per cell or per
// listing without caring about transport details.
var (
	ErrExternalSource = errors.New("airbnb: external source failure")
	ErrNotFound       = errors.New("airbnb: listing not found")
	ErrUnauthorized   = errors.New("airbnb: unauthorized")
	ErrRateLimited    = errors.New("airbnb: rate limited")
)

// SearchFilters is the narrow query surface forwarded to the search call.
type SearchFilters struct {
	CheckIn   string   `json:"check_in"`
	CheckOut  string   `json:"check_out"`
	Currency  string   `json:"currency"`
	Language  string   `json:"language"`
	PriceMin  int      `json:"price_min"`
	PriceMax  int      `json:"price_max"`
	PlaceType string   `json:"place_type"`
	Amenities []string `json:"amenities"`
	ZoomValue int      `json:"zoom_value"`
}

// Source is the contract the pipeline consumes from the external scraping
// collaborator: search a bounding box, or enrich one listing URL.
type Source interface {
	Search(ctx context.Context, box models.BoundingBox, filters SearchFilters) ([]models.Record, error)
	Details(ctx context.Context, listingURL string) (models.Record, error)
}

// Client talks to a pyairbnb-compatible scraper service over HTTP. The
// service owns marketplace authentication, pagination, and anti-blocking;
// this side only sends bounding boxes and listing URLs and decodes the JSON
// records that come back.
type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

// NewClient creates a Client for the scraper service at base. rps caps the
// client-side request rate.
func NewClient(base, key string, rps int) *Client {
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		key:  key,
		hc:   &http.Client{Timeout: 60 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type searchRequest struct {
	SWLat  float64 `json:"sw_lat"`
	SWLong float64 `json:"sw_long"`
	NELat  float64 `json:"ne_lat"`
	NELong float64 `json:"ne_long"`
	SearchFilters
}

// Search returns every listing the collaborator finds inside box.
func (c *Client) Search(ctx context.Context, box models.BoundingBox, filters SearchFilters) ([]models.Record, error) {
	body, err := json.Marshal(searchRequest{
		SWLat:         box.SWLat,
		SWLong:        box.SWLong,
		NELat:         box.NELat,
		NELong:        box.NELong,
		SearchFilters: filters,
	})
	if err != nil {
		return nil, fmt.Errorf("airbnb: encode search request: %w", err)
	}

	var records []models.Record
	if err := c.do(ctx, http.MethodPost, c.base+"/v1/search", body, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Details returns one enriched listing record for a listing URL.
func (c *Client) Details(ctx context.Context, listingURL string) (models.Record, error) {
	u := c.base + "/v1/details?room_url=" + url.QueryEscape(listingURL)

	var record models.Record
	if err := c.do(ctx, http.MethodGet, u, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// do performs one request with client-side rate limiting and maps the
// response status onto the failure taxonomy. Payloads are decoded with
// UseNumber so big room ids survive intact.
func (c *Client) do(ctx context.Context, method, reqURL string, body []byte, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("airbnb: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "airbnb-area-scraper/1.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrExternalSource, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrExternalSource, err)
		}
		return nil

	case http.StatusNotFound:
		return ErrNotFound

	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized

	case http.StatusTooManyRequests:
		if wait := retryAfter(resp); wait > 0 {
			return fmt.Errorf("%w: retry after %v", ErrRateLimited, wait)
		}
		return ErrRateLimited

	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: status %d: %s",
			ErrExternalSource, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}

// retryAfter parses the Retry-After header (seconds or HTTP-date). Returns 0
// when absent or invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
