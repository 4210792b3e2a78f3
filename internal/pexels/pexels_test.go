package pexels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai-backend/internal/config"
	"wanderai-backend/internal/logging"
)

func photo(id int64, name string) Photo {
	return Photo{
		ID:              id,
		URL:             "https://www.pexels.com/photo/" + name,
		Photographer:    "Jane " + name,
		PhotographerURL: "https://www.pexels.com/@" + name,
		AvgColor:        "#7A8B9C",
		Src:             PhotoSource{Large: "https://images.pexels.com/" + name + "-large.jpg"},
	}
}

type fakePexels struct {
	srv     *httptest.Server
	hits    atomic.Int32
	queries []string
}

// newFakePexels serves /search from photos keyed by query.
func newFakePexels(t *testing.T, photos map[string][]Photo, status int) *fakePexels {
	t.Helper()
	f := &fakePexels{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		q := r.URL.Query()
		f.queries = append(f.queries, q.Get("query"))
		assert.Equal(t, "landscape", q.Get("orientation"))
		assert.Equal(t, "1", q.Get("per_page"))

		w.Header().Set("X-Ratelimit-Remaining", "199")
		_ = json.NewEncoder(w).Encode(SearchResult{Page: 1, PerPage: 1, Photos: photos[q.Get("query")]})
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.PexelsConfig{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		PerPage:         1,
		RequestsPerHour: 360000,
	}, logging.Discard())
}

func TestDestinationImage_FirstPhoto(t *testing.T) {
	f := newFakePexels(t, map[string][]Photo{"Kyoto": {photo(1, "kyoto")}}, 0)
	c := newTestClient(t, f.srv.URL)

	img, err := c.DestinationImage(context.Background(), "Kyoto")
	require.NoError(t, err)

	assert.Equal(t, "https://images.pexels.com/kyoto-large.jpg", img.ImageURL)
	assert.Equal(t, "Jane kyoto", img.Photographer)
	assert.Equal(t, "https://www.pexels.com/@kyoto", img.PhotographerURL)
	assert.Equal(t, "https://www.pexels.com/photo/kyoto", img.PexelsURL)
	assert.Equal(t, "#7A8B9C", img.AvgColor)
}

func TestDestinationImage_FallbackQuery(t *testing.T) {
	f := newFakePexels(t, map[string][]Photo{FallbackQuery: {photo(2, "generic")}}, 0)
	c := newTestClient(t, f.srv.URL)

	img, err := c.DestinationImage(context.Background(), "Nowhereville")
	require.NoError(t, err)

	assert.Equal(t, "Jane generic", img.Photographer)
	assert.Equal(t, []string{"Nowhereville", FallbackQuery}, f.queries)
}

func TestDestinationImage_NoImage(t *testing.T) {
	f := newFakePexels(t, map[string][]Photo{}, 0)
	c := newTestClient(t, f.srv.URL)

	_, err := c.DestinationImage(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestDestinationImage_Cached(t *testing.T) {
	f := newFakePexels(t, map[string][]Photo{"Lima": {photo(3, "lima")}}, 0)
	c := newTestClient(t, f.srv.URL)

	first, err := c.DestinationImage(context.Background(), "Lima")
	require.NoError(t, err)
	second, err := c.DestinationImage(context.Background(), " lima ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), f.hits.Load())
}

func TestDestinationImage_RateLimited(t *testing.T) {
	f := newFakePexels(t, nil, http.StatusTooManyRequests)
	c := newTestClient(t, f.srv.URL)

	_, err := c.DestinationImage(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), f.hits.Load(), "no fallback search after a 429")
}

func TestDestinationImage_EmptyBucketDoesNotWait(t *testing.T) {
	f := newFakePexels(t, map[string][]Photo{}, 0)
	c := NewClient(config.PexelsConfig{
		APIKey:  "test-key",
		BaseURL: f.srv.URL,
		PerPage: 1,
		Timeout: 10 * time.Second,
	}, logging.Discard())

	for _, dest := range []string{"Atlantis", "Lemuria", "Avalon", "Shangri-La", "El Dorado"} {
		_, err := c.DestinationImage(context.Background(), dest)
		require.ErrorIs(t, err, ErrNoImage, dest)
	}
	require.Equal(t, int32(10), f.hits.Load())

	start := time.Now()
	_, err := c.DestinationImage(context.Background(), "Tokyo")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(10), f.hits.Load(), "no request once the hourly budget is spent")
}

func TestSearch_Validation(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")
	_, err := c.Search(context.Background(), "  ", "landscape", 1)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	noKey := NewClient(config.PexelsConfig{BaseURL: "http://127.0.0.1:0"}, logging.Discard())
	_, err = noKey.DestinationImage(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRateLimitStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/curated", r.URL.Path)
		w.Header().Set("X-Ratelimit-Limit", "20000")
		w.Header().Set("X-Ratelimit-Remaining", "19990")
		w.Header().Set("X-Ratelimit-Reset", "1735689600")
		_, _ = w.Write([]byte(`{"photos":[]}`))
	}))
	defer srv.Close()

	rl, err := newTestClient(t, srv.URL).RateLimitStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &RateLimit{Limit: 20000, Remaining: 19990, Reset: 1735689600}, rl)
}

func TestCurated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/curated", r.URL.Path)
		assert.Equal(t, "15", r.URL.Query().Get("per_page"))
		_ = json.NewEncoder(w).Encode(SearchResult{Page: 1, PerPage: 15, Photos: []Photo{photo(7, "lisbon")}})
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).Curated(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, res.Photos, 1)
	assert.Equal(t, "Jane lisbon", res.Photos[0].Photographer)
}
