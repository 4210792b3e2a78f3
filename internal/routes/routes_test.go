package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/handlers"
	"wanderai-backend/internal/logging"
	"wanderai-backend/internal/models"
)

type rejectAll struct{}

func (rejectAll) Resolve(context.Context, string) (*models.User, error) {
	return nil, common.Unauthorized("Could not validate credentials", nil)
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newMux() *http.ServeMux {
	log := logging.Discard()
	mux := http.NewServeMux()
	SetupRoutes(mux, Handlers{
		Health:       handlers.NewHealthHandler(okPinger{}, "test"),
		Auth:         handlers.NewAuthHandler(nil, log),
		Trips:        handlers.NewTripsHandler(nil, nil, log),
		Itinerary:    handlers.NewItineraryHandler(nil, nil, nil, nil, log),
		Expenses:     handlers.NewExpensesHandler(nil, nil, log),
		Chat:         handlers.NewChatHandler(nil, nil, log),
		Destinations: handlers.NewDestinationsHandler(nil, log),
	}, rejectAll{}, log)
	return mux
}

func TestSetupRoutes(t *testing.T) {
	mux := newMux()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/v1/destinations?limit=500", http.StatusUnprocessableEntity},
		{http.MethodGet, "/v1/trips", http.StatusUnauthorized},
		{http.MethodPost, "/v1/chat", http.StatusUnauthorized},
		{http.MethodGet, "/v1/expenses/abc/expenses/summary", http.StatusUnauthorized},
		{http.MethodPatch, "/v1/trips", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestUnmatchedRoutesUseErrorEnvelope(t *testing.T) {
	mux := newMux()

	tests := []struct {
		method string
		path   string
		status int
		code   string
		allow  string
	}{
		{http.MethodGet, "/nope", http.StatusNotFound, common.CodeNotFound, ""},
		{http.MethodGet, "/v1/unknown/resource", http.StatusNotFound, common.CodeNotFound, ""},
		{http.MethodPatch, "/v1/trips", http.StatusMethodNotAllowed, common.CodeMethod, "GET, POST"},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, common.CodeMethod, "GET"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.allow, rec.Header().Get("Allow"))

			var body struct {
				Error struct {
					Code      string `json:"code"`
					Message   string `json:"message"`
					Timestamp string `json:"timestamp"`
					RequestID string `json:"request_id"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.NotEmpty(t, body.Error.Timestamp)
			assert.Equal(t, "unknown", body.Error.RequestID)
		})
	}
}
