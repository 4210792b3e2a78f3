package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/utils"
)

const (
	rateLimitMessage = "Too many requests. Please try again later."
	retryAfterSecs   = 60
)

// Limiter admits or rejects a request for a client key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects clients that exceed the limiter with 429. /health is
// never limited. A failing limiter lets the request through.
func RateLimit(limiter Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With("component", "ratelimit")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			key := clientKey(r)
			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				log.InfoContext(r.Context(), "rate limit exceeded", "client", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
				utils.WriteJSONResponse(w, http.StatusTooManyRequests, dto.ErrorResponse{Error: dto.ErrorBody{
					Code:       common.CodeRateLimited,
					Message:    rateLimitMessage,
					RetryAfter: retryAfterSecs,
				}})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey is the client address without its port
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
