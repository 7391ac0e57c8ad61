package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/accountd/internal/model"
)

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// handleError maps domain errors to client responses. Anything unexpected
// becomes a 500 with the route's generic message; internal detail stays in
// the logs only.
func (h *Auth) handleError(w http.ResponseWriter, err error, internalMsg string) {
	switch {
	case errors.Is(err, model.ErrEmailTaken):
		// Generic body: a 409 must not confirm which field collided.
		writeJSON(w, http.StatusConflict, errorResponse{Error: "unable to create account"})
	case errors.Is(err, model.ErrTokenInvalid):
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Invalid token"})
	case errors.Is(err, model.ErrTokenExpired):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Token expired"})
	case errors.Is(err, model.ErrInvalidCredentials):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Invalid credentials"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: internalMsg})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
