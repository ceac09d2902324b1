package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/latavola/ordering/internal/catalog"
	"github.com/latavola/ordering/internal/feedback"
	"github.com/latavola/ordering/internal/identity"
	"github.com/latavola/ordering/internal/orders"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

// writeDomainError maps domain errors onto the HTTP taxonomy: client errors
// surface with their message, storage errors are logged in full and surface
// as an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case orders.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrPhoneTaken),
		errors.Is(err, feedback.ErrUnknownUser):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, catalog.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
