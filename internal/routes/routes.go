package routes

import (
	"log/slog"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/handlers"
	"wanderai-backend/internal/middleware"
	"wanderai-backend/internal/utils"
)

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Handlers groups the endpoint handlers mounted by SetupRoutes
type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Trips        *handlers.TripsHandler
	Itinerary    *handlers.ItineraryHandler
	Expenses     *handlers.ExpensesHandler
	Chat         *handlers.ChatHandler
	Destinations *handlers.DestinationsHandler
}

// SetupRoutes configures all application routes on mux
func SetupRoutes(mux *http.ServeMux, h Handlers, authn middleware.Authenticator, log *slog.Logger) {
	protected := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.AuthMiddleware(next, authn, log)
	}

	// Health check routes
	mux.HandleFunc("GET /{$}", h.Health.Root)
	mux.HandleFunc("GET /health", h.Health.HealthCheck)
	mux.HandleFunc("GET /ready", h.Health.ReadinessCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// Public catalog
	mux.HandleFunc("GET /v1/destinations", h.Destinations.SearchDestinations)
	mux.HandleFunc("GET /v1/destinations/{destination_id}", h.Destinations.GetDestination)

	// Profile
	mux.HandleFunc("GET /v1/auth/me", protected(h.Auth.GetMe))
	mux.HandleFunc("PUT /v1/auth/me", protected(h.Auth.UpdateMe))

	// Trips
	mux.HandleFunc("GET /v1/trips", protected(h.Trips.ListTrips))
	mux.HandleFunc("POST /v1/trips", protected(h.Trips.CreateTrip))
	mux.HandleFunc("GET /v1/trips/{trip_id}", protected(h.Trips.GetTrip))
	mux.HandleFunc("PUT /v1/trips/{trip_id}", protected(h.Trips.UpdateTrip))
	mux.HandleFunc("DELETE /v1/trips/{trip_id}", protected(h.Trips.DeleteTrip))

	// Itinerary and activities
	mux.HandleFunc("GET /v1/trips/{trip_id}/itinerary", protected(h.Itinerary.GetItinerary))
	mux.HandleFunc("POST /v1/trips/{trip_id}/itinerary", protected(h.Itinerary.GenerateItinerary))
	mux.HandleFunc("GET /v1/trips/{trip_id}/activities", protected(h.Itinerary.ListActivities))
	mux.HandleFunc("POST /v1/trips/{trip_id}/days/{day_id}/activities", protected(h.Itinerary.CreateActivity))
	mux.HandleFunc("PUT /v1/trips/{trip_id}/activities/{activity_id}", protected(h.Itinerary.UpdateActivity))
	mux.HandleFunc("DELETE /v1/trips/{trip_id}/activities/{activity_id}", protected(h.Itinerary.DeleteActivity))

	// Expenses
	mux.HandleFunc("GET /v1/expenses/{trip_id}/expenses", protected(h.Expenses.ListExpenses))
	mux.HandleFunc("POST /v1/expenses/{trip_id}/expenses", protected(h.Expenses.CreateExpense))
	mux.HandleFunc("GET /v1/expenses/{trip_id}/expenses/summary", protected(h.Expenses.Summary))
	mux.HandleFunc("DELETE /v1/expenses/{trip_id}/expenses/{expense_id}", protected(h.Expenses.DeleteExpense))

	// Chat
	mux.HandleFunc("POST /v1/chat", protected(h.Chat.SendMessage))
	mux.HandleFunc("GET /v1/chat/history/{session_id}", protected(h.Chat.History))
	mux.HandleFunc("GET /v1/chat/sessions", protected(h.Chat.Sessions))

	// Everything unmatched, so clients always get the JSON envelope
	mux.HandleFunc("/", unmatched(mux))
}

// unmatched answers 405 when the path exists under another method, 404 otherwise.
func unmatched(mux *http.ServeMux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, m := range routeMethods {
			probe := r.Clone(r.Context())
			probe.Method = m
			if _, pattern := mux.Handler(probe); strings.HasPrefix(pattern, m+" ") {
				allowed = append(allowed, m)
			}
		}
		if len(allowed) == 0 {
			utils.WriteError(w, r, nil, common.NotFound("Route"))
			return
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		utils.WriteErrorResponse(w, r, http.StatusMethodNotAllowed, common.CodeMethod, "Method not allowed")
	}
}
