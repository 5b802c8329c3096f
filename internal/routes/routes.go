package routes

import (
	"net/http"

	"github.com/jamspace/jamspace/internal/app"
	"github.com/jamspace/jamspace/internal/handler"
	"github.com/jamspace/jamspace/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	profile := handler.NewProfileHandler(app.ProfileService)
	discover := handler.NewDiscoverHandler(app.DiscoverService)
	project := handler.NewProjectHandler(app.ProjectService)
	file := handler.NewFileHandler(app.FileService, app.Cfg.MaxUploadSize)

	api := app.Cfg.APIPrefix
	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET "+api+"/{$}", home.Liveness)
	if api != "" {
		// bare health check for load balancers
		mux.HandleFunc("GET /{$}", home.Liveness)
	}

	// Auth (rate limited per client IP)
	rateLimit := middleware.RateLimit(app.AuthRateLimiter)
	mux.Handle("POST "+api+"/auth/signup", rateLimit(http.HandlerFunc(auth.Signup)))
	mux.Handle("POST "+api+"/auth/login", rateLimit(http.HandlerFunc(auth.Login)))

	mux.HandleFunc("GET "+api+"/profile/{userId}", profile.Get)
	mux.HandleFunc("GET "+api+"/discover", discover.Search)
	mux.HandleFunc("GET "+api+"/projects/user/{userId}", project.ListByUser)
	mux.HandleFunc("GET "+api+"/projects/{projectId}", project.Get)

	// ============================================================================
	// BEARER ROUTES (handlers answer 401 without a user)
	// ============================================================================

	mux.HandleFunc("PUT "+api+"/profile", profile.Update)
	mux.HandleFunc("POST "+api+"/profile/reconcile", profile.Reconcile)
	mux.HandleFunc("POST "+api+"/projects", project.Create)
	mux.HandleFunc("PUT "+api+"/projects/{projectId}", project.Update)
	mux.HandleFunc("POST "+api+"/projects/{projectId}/files", file.Upload)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID, // First so every log line and error carries the id
		middleware.RequestLogging,
		middleware.Recovery, // Panics become 500 JSON errors, logged above
		middleware.SecurityHeaders,
		middleware.CORS, // Answers preflight before auth runs
		middleware.AuthMiddleware(app.AuthService),
	)

	return handler
}
