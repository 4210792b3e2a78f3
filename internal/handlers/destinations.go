package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
	"wanderai-backend/internal/models"
	"wanderai-backend/internal/utils"
)

const (
	defaultDestinationLimit = 20
	maxDestinationLimit     = 100
)

// DestinationCatalog reads the destination catalog
type DestinationCatalog interface {
	Search(ctx context.Context, query string, limit int) ([]models.Destination, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
}

// DestinationsHandler serves the public destination catalog
type DestinationsHandler struct {
	catalog DestinationCatalog
	log     *slog.Logger
}

// NewDestinationsHandler creates a new DestinationsHandler
func NewDestinationsHandler(catalog DestinationCatalog, log *slog.Logger) *DestinationsHandler {
	return &DestinationsHandler{catalog: catalog, log: log.With("component", "destinations")}
}

// SearchDestinations handles GET /v1/destinations
// @Summary Search the destination catalog
// @Tags destinations
// @Produce json
// @Param query query string false "Matches name, country or description"
// @Param limit query int false "1 to 100, default 20"
// @Success 200 {array} dto.DestinationResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/destinations [get]
func (h *DestinationsHandler) SearchDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultDestinationLimit
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxDestinationLimit {
			utils.WriteError(w, r, nil, common.Validation("limit must be between 1 and 100", map[string]any{"field": "limit"}))
			return
		}
		limit = n
	}

	destinations, err := h.catalog.Search(r.Context(), strings.TrimSpace(q.Get("query")), limit)
	if err != nil {
		utils.WriteError(w, r, h.log, err)
		return
	}
	items := make([]dto.DestinationResponse, 0, len(destinations))
	for i := range destinations {
		items = append(items, toDestinationResponse(&destinations[i]))
	}
	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// GetDestination handles GET /v1/destinations/{destination_id}
// @Summary Get a destination
// @Tags destinations
// @Produce json
// @Param destination_id path string true "Destination ID"
// @Success 200 {object} dto.DestinationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /v1/destinations/{destination_id} [get]
func (h *DestinationsHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.PathUUID(w, r, "destination_id")
	if !ok {
		return
	}
	d, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.log, missing(err, "Destination"))
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toDestinationResponse(d))
}
