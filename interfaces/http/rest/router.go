package rest

import (
	"net/http"

	"schoolhub-backend/application/services"
	"schoolhub-backend/interfaces/http/rest/handlers"
	"schoolhub-backend/interfaces/http/rest/middleware"
	"schoolhub-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	authService   *services.AuthService
	clickService  *services.ClickService
	uploadService *services.UploadService
	exportService *services.ExportService
	tokens        *auth.TokenIssuer
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	authService *services.AuthService,
	clickService *services.ClickService,
	uploadService *services.UploadService,
	exportService *services.ExportService,
	tokens *auth.TokenIssuer,
	logger *zap.Logger,
) *Router {
	return &Router{
		authService:   authService,
		clickService:  clickService,
		uploadService: uploadService,
		exportService: exportService,
		tokens:        tokens,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS is deliberately open; the frontend is served from anywhere.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	authHandler := handlers.NewAuthHandler(rt.authService, rt.logger)
	gameHandler := handlers.NewGameHandler(rt.clickService, rt.logger)
	uploadHandler := handlers.NewUploadHandler(rt.uploadService, rt.logger)
	downloadHandler := handlers.NewDownloadHandler(rt.exportService, rt.logger)

	// Public routes: login and game clicks (clicks may be anonymous).
	router.Post("/auth/login", authHandler.Login)
	router.Post("/games/{gameID}/click", gameHandler.Click)

	// Bulk import/export requires a session token.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(rt.tokens, rt.logger))
		r.Post("/upload/{entity}", uploadHandler.Upload)
		r.Get("/{entity}/download", downloadHandler.Download)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
