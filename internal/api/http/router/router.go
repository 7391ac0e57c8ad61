// Package router wires HTTP handlers and middleware into the route table.
package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/accountd/internal/api/http/handler"
	"github.com/dtroode/accountd/internal/api/http/middleware"
	"github.com/dtroode/accountd/internal/logger"
)

// Router builds the HTTP route table for account operations.
type Router struct {
	authService handler.AuthService
	logger      *logger.Logger
}

// New creates a new Router instance.
func New(authService handler.AuthService, logger *logger.Logger) *Router {
	return &Router{
		authService: authService,
		logger:      logger,
	}
}

// Register builds the mux router with request logging and all auth routes.
func (r *Router) Register() *mux.Router {
	m := mux.NewRouter()

	logging := middleware.NewLogging(r.logger)
	m.Use(logging.Handle)

	authHandler := handler.NewAuth(r.authService, r.logger)

	api := m.PathPrefix("/api/user").Subrouter()
	api.HandleFunc("/signup", authHandler.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/verify-email", authHandler.VerifyEmail).Methods(http.MethodGet)
	api.HandleFunc("/signin", authHandler.SignIn).Methods(http.MethodPost)

	return m
}
