package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"wanderai-backend/internal/common"
	"wanderai-backend/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteNoContent writes an empty 204 response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteErrorResponse writes the standard error envelope
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errorBody(r, code, message)})
}

// WriteError classifies err and writes the matching envelope. Internal errors
// are logged with their cause; clients only see the generic message.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	appErr := common.AsAppError(err)
	if appErr.Status >= http.StatusInternalServerError && log != nil {
		log.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
		)
	}
	body := errorBody(r, appErr.Code, appErr.Message)
	body.Details = appErr.Details
	WriteJSONResponse(w, appErr.Status, dto.ErrorResponse{Error: body})
}

func errorBody(r *http.Request, code, message string) dto.ErrorBody {
	requestID := "unknown"
	if r != nil {
		if id := RequestIDFromContext(r.Context()); id != "" {
			requestID = id
		}
	}
	return dto.ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RequestID: requestID,
	}
}
