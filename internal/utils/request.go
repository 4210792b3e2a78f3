package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"wanderai-backend/internal/common"
)

const maxBodyBytes = 1 << 20

// DecodeJSONRequest decodes the request body into dst. On failure it writes a
// 422 response and returns the error; callers just return.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		WriteError(w, r, nil, common.Validation(msg, map[string]any{"reason": err.Error()}))
		return err
	}
	return nil
}

// PathUUID parses the named path value as a UUID. On failure it writes a 422
// response and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		WriteError(w, r, nil, common.Validation(name+" must be a UUID", nil))
		return uuid.Nil, false
	}
	return id, true
}
