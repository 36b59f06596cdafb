package utils

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"moviecatalog/internal/apperr"
	"moviecatalog/internal/logging"
)

// maxBodyBytes bounds request bodies; an import payload is the largest.
const maxBodyBytes = 4 << 20

// GetPathParam returns a chi URL parameter
func GetPathParam(r *http.Request, param string) string {
	return chi.URLParam(r, param)
}

// DecodeJSON reads the request body into dst. A malformed body is a
// validation error. Unknown fields are ignored; clients send back whole
// documents including _id and timestamps.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required")
		}
		return apperr.Validation("Invalid request body")
	}
	return nil
}

// ReadBody returns the raw request body, bounded like DecodeJSON.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.Validation("Invalid request body")
	}
	return body, nil
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// RespondMessage sends {"message": msg}
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, map[string]string{"message": message}, statusCode)
}

// RespondError maps err to a status code and sends {"message": ...}.
// Internal errors are logged with their cause and shown to the client only as
// a generic message.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logging.CtxErr(r.Context(), err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}
	RespondMessage(w, apperr.PublicMessage(err), apperr.HTTPStatus(kind))
}
