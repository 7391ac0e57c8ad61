// Package handler implements the HTTP endpoints for registration, email
// verification and sign-in. Request shape validation happens here, at the
// boundary; the service layer only enforces business invariants.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/service"
)

// AuthService defines registration, email verification and sign-in operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) error
	VerifyEmail(ctx context.Context, token string) error
	Login(ctx context.Context, params service.LoginParams) (string, error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type signUpRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if msg, ok := validateSignUp(req); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	err := h.authService.Register(r.Context(), service.RegisterParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: sign-up failed", "error", err.Error())
		h.handleError(w, err, "Error creating user")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "User signed up successfully"})
}

// VerifyEmail consumes a verification token passed as a query parameter.
func (h *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.authService.VerifyEmail(r.Context(), token); err != nil {
		h.logger.Error("Auth handler: email verification failed", "error", err.Error())
		h.handleError(w, err, "Error verifying token")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Token verified and invalidated successfully"})
}

// SignIn verifies credentials and returns a signed session token.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if msg, ok := validateSignIn(req); !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
		return
	}

	token, err := h.authService.Login(r.Context(), service.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error("Auth handler: sign-in failed", "error", err.Error())
		h.handleError(w, err, "Error signing in")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func validateSignUp(req signUpRequest) (string, bool) {
	if strings.TrimSpace(req.FullName) == "" {
		return "Name cannot be empty", false
	}
	if msg, ok := validateCredentials(req.Email, req.Password); !ok {
		return msg, false
	}
	return "", true
}

func validateSignIn(req signInRequest) (string, bool) {
	return validateCredentials(req.Email, req.Password)
}

func validateCredentials(email, password string) (string, bool) {
	if strings.TrimSpace(email) == "" {
		return "Email cannot be empty", false
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Email is not valid", false
	}
	if password == "" {
		return "Password cannot be empty", false
	}
	return "", true
}
