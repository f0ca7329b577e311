package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"formlens/internal/config"
	"formlens/internal/service"
	"formlens/internal/transport/rest/handler"
	"formlens/internal/transport/rest/middleware"
	"formlens/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Server          config.ServerConfig
	AuthService     *service.AuthService
	FormService     *service.FormService
	AnalysisService *service.AnalysisService
	WSHub           *ws.Hub
	Logger          *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService, c.Logger)
	analysisHandler := handler.NewAnalysisHandler(c.AnalysisService, c.FormService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Server))
	r.Use(middleware.RequestLogger(c.Logger))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.Handle("/analyze", authMW.OptionalHost(http.HandlerFunc(analysisHandler.Analyze))).Methods("POST", "OPTIONS")
	v1.HandleFunc("/suggest-question", analysisHandler.SuggestQuestion).Methods("POST", "OPTIONS")
	v1.HandleFunc("/forms/{formId}/submissions", formHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService, c.Logger)
		v1.HandleFunc("/ws/forms/{formId}", wsHandler.FormWS).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Host routes (require host auth)
	hostRoutes := v1.NewRoute().Subrouter()
	hostRoutes.Use(authMW.RequireHost)

	hostRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	hostRoutes.HandleFunc("/forms", formHandler.List).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")

	// Report routes (host only)
	hostRoutes.HandleFunc("/forms/{formId}/report", analysisHandler.GetReport).Methods("GET", "OPTIONS")
	hostRoutes.HandleFunc("/forms/{formId}/report", analysisHandler.GenerateReport).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(cfg config.ServerConfig) mux.MiddlewareFunc {
	allowedOrigins := cfg.CORSAllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	allowedMethods := cfg.CORSAllowedMethods
	if allowedMethods == "" {
		allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	allowedHeaders := cfg.CORSAllowedHeaders
	if allowedHeaders == "" {
		allowedHeaders = "Content-Type, Authorization"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
