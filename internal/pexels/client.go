// Package pexels looks up destination photos on the Pexels API.
package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"wanderai-backend/internal/config"
)

var (
	ErrRateLimited   = errors.New("pexels rate limit exceeded")
	ErrNoImage       = errors.New("no image found")
	ErrEmptyQuery    = errors.New("empty search query")
	ErrNotConfigured = errors.New("pexels api key not configured")
)

// Photo is a single Pexels photo
type Photo struct {
	ID              int64       `json:"id"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	URL             string      `json:"url"`
	Photographer    string      `json:"photographer"`
	PhotographerURL string      `json:"photographer_url"`
	AvgColor        string      `json:"avg_color"`
	Src             PhotoSource `json:"src"`
	Alt             string      `json:"alt"`
}

// PhotoSource holds the rendition URLs of a photo
type PhotoSource struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

// SearchResult is a page of photos
type SearchResult struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	Photos       []Photo `json:"photos"`
	NextPage     string  `json:"next_page,omitempty"`
}

// RateLimit mirrors the X-Ratelimit-* response headers
type RateLimit struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// Client talks to the Pexels REST API. Outbound calls share one token bucket
// sized from the hourly request budget; an empty bucket answers ErrRateLimited
// instead of waiting.
type Client struct {
	apiKey   string
	baseURL  string
	perPage  int
	timeout  time.Duration
	http     *http.Client
	throttle *rate.Limiter
	cache    *gocache.Cache
	log      *slog.Logger
}

func NewClient(cfg config.PexelsConfig, log *slog.Logger) *Client {
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = 200
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		perPage:  perPage,
		timeout:  timeout,
		http:     &http.Client{Timeout: timeout},
		throttle: rate.NewLimiter(rate.Limit(float64(perHour)/3600), 10),
		cache:    gocache.New(ttl, time.Hour),
		log:      log.With("component", "pexels"),
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	if !c.throttle.Allow() {
		return nil, fmt.Errorf("pexels throttle: %w", ErrRateLimited)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	return c.http.Do(req)
}

// Search queries /search. A 429 answer yields ErrRateLimited.
func (c *Client) Search(ctx context.Context, query, orientation string, perPage int) (*SearchResult, error) {
	ctx, span := otel.Tracer("wanderai/pexels").Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("pexels.query", query))

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if perPage <= 0 {
		perPage = c.perPage
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	if orientation != "" {
		params.Set("orientation", orientation)
	}

	resp, err := c.get(ctx, "/search", params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("pexels search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		span.SetStatus(codes.Error, "rate limited")
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("pexels search: status %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad status")
		return nil, err
	}
	if remaining := resp.Header.Get("X-Ratelimit-Remaining"); remaining != "" {
		c.log.InfoContext(ctx, "pexels requests remaining", "remaining", remaining)
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode pexels search: %w", err)
	}
	span.SetAttributes(attribute.Int("pexels.photos", len(result.Photos)))
	return &result, nil
}

// Curated returns the curated photo feed
func (c *Client) Curated(ctx context.Context, perPage int) (*SearchResult, error) {
	if perPage <= 0 {
		perPage = 15
	}
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/curated", params)
	if err != nil {
		return nil, fmt.Errorf("pexels curated: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels curated: status %d", resp.StatusCode)
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode pexels curated: %w", err)
	}
	return &result, nil
}

// RateLimitStatus spends one request to read the quota headers.
func (c *Client) RateLimitStatus(ctx context.Context) (*RateLimit, error) {
	params := url.Values{}
	params.Set("per_page", "1")

	resp, err := c.get(ctx, "/curated", params)
	if err != nil {
		return nil, fmt.Errorf("pexels rate limit: %w", err)
	}
	defer resp.Body.Close()

	atoi := func(h string) int64 {
		n, _ := strconv.ParseInt(resp.Header.Get(h), 10, 64)
		return n
	}
	return &RateLimit{
		Limit:     int(atoi("X-Ratelimit-Limit")),
		Remaining: int(atoi("X-Ratelimit-Remaining")),
		Reset:     atoi("X-Ratelimit-Reset"),
	}, nil
}
