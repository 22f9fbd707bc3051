// Package respond has the JSON response helpers shared by all handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/confirm"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// Error maps the service error taxonomy onto HTTP status codes:
// validation -> 400, not found -> 404, invalid transition and unconfirmed
// delete -> 409, everything else -> 500 with the detail kept out of the
// response.
func Error(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		JSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case apperr.IsNotFound(err):
		JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case apperr.IsInvalidTransition(err), errors.Is(err, confirm.ErrNotRequested):
		JSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		slog.Error("internal error", "error", err)
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
