// Package httphandler exposes the storefront over a stdlib ServeMux with
// method patterns. Identity is a cookie, not an auth flow: handlers under
// the identity middleware read the user id from the request context.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/greencart/ecostore/internal/core/domain"
)

const (
	defaultListLimit     = 50
	defaultTrendingLimit = 10
	defaultHistoryLimit  = 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "writeJSON"
	log := slog.With("op", op)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func writeDomainErr(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrExists):
		http.Error(w, "already exists", http.StatusConflict)
	case errors.Is(err, domain.ErrUnauthenticated):
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		log.Error("unexpected error", "err", err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
