package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/brickfolio/marketplace-backend/models"
	"github.com/brickfolio/marketplace-backend/storage"
)

type ContextKey string

const (
	UserIDKey = ContextKey("userID")
	RoleKey   = ContextKey("role")
	TokenKey  = ContextKey("token")
)

// requestIdentity pulls the authenticated user out of the request context.
func requestIdentity(r *http.Request) (string, models.Role, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return "", "", false
	}
	role, ok := r.Context().Value(RoleKey).(string)
	if !ok {
		return "", "", false
	}
	return userID, models.Role(role), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

// storeError maps storage failures onto the error taxonomy. Internal
// details are logged, never returned.
func storeError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrDuplicate):
		http.Error(w, "Already exists", http.StatusConflict)
	case errors.Is(err, storage.ErrInsufficientCredits):
		http.Error(w, "Insufficient credits", http.StatusBadRequest)
	case errors.Is(err, storage.ErrLeadAlreadyUnlocked):
		http.Error(w, "Failed to unlock lead", http.StatusBadRequest)
	default:
		slog.Error(operation+" failed", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
