package airbnb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"airbnb-area-scraper/models"
)

func testBox() models.BoundingBox {
	return models.BoundingBox{
		Name:   "Area_1_1",
		SWLat:  41.03,
		SWLong: 28.97,
		NELat:  41.0325,
		NELong: 28.9725,
	}
}

func TestClientSearch(t *testing.T) {
	var gotPath, gotKey string
	var gotReq map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"room_id": 1234567890123456789, "name": "Cozy flat"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 10)
	records, err := c.Search(context.Background(), testBox(), SearchFilters{Currency: "USD"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if gotPath != "/v1/search" {
		t.Errorf("path: got %q, want /v1/search", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("api key header: got %q", gotKey)
	}
	if gotReq["sw_lat"] != 41.03 || gotReq["ne_long"] != 28.9725 {
		t.Errorf("request box: got %v", gotReq)
	}
	if gotReq["currency"] != "USD" {
		t.Errorf("request currency: got %v", gotReq["currency"])
	}

	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	id, ok := records[0].RoomID()
	if !ok || id != "1234567890123456789" {
		t.Errorf("room id: got %q, %v — big ids must not round", id, ok)
	}
}

func TestClientDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/details" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("room_url"); got != "https://www.airbnb.com/rooms/123" {
			t.Errorf("room_url: got %q", got)
		}
		_, _ = w.Write([]byte(`{"room_id": "123", "title": "Flat in Kadikoy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10)
	rec, err := c.Details(context.Background(), "https://www.airbnb.com/rooms/123")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if rec.Str("title") != "Flat in Kadikoy" {
		t.Errorf("title: got %q", rec.Str("title"))
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrExternalSource},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tt.status == http.StatusTooManyRequests {
				w.Header().Set("Retry-After", "30")
			}
			w.WriteHeader(tt.status)
		}))

		c := NewClient(srv.URL, "", 10)
		_, err := c.Details(context.Background(), "https://www.airbnb.com/rooms/1")
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
		srv.Close()
	}
}

func TestClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10)
	_, err := c.Search(context.Background(), testBox(), SearchFilters{})
	if !errors.Is(err, ErrExternalSource) {
		t.Errorf("got %v, want ErrExternalSource", err)
	}
}

func TestClientHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "", 10)
	_, err := c.Details(ctx, "https://www.airbnb.com/rooms/1")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
