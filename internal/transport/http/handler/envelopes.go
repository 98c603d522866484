package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthonyadade/FakeStack/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeText writes a plain human-readable error body, the shape every
// client of this API expects on failure.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// httpError converts a service error into an HTTP response. Validation
// failures become 400; everything else, not-found included, is a 500.
func httpError(w http.ResponseWriter, err error, prefix string) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrBadRequest) {
		status = http.StatusBadRequest
	}
	writeText(w, status, fmt.Sprintf("%s: %v", prefix, err))
}
