package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/projectshelf-api/internal/auth"
	"github.com/redmonkez12/projectshelf-api/internal/config"
	"github.com/redmonkez12/projectshelf-api/internal/httputil"
	"github.com/redmonkez12/projectshelf-api/internal/logging"
	"github.com/redmonkez12/projectshelf-api/internal/project"
)

// Handlers groups everything the router mounts
type Handlers struct {
	User    *auth.Handler
	Project *project.Handler
	Guard   *auth.Middleware
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first. Credentials are allowed so the session cookie is sent cross-origin.
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	r.Use(SecurityHeaders(!cfg.Server.IsDevelopment()))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled", "path", "/swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", h.User.Routes(h.Guard))
		r.Route("/project", h.Project.Routes(h.Guard.RequireAuth))
	})

	return r
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API working"))
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
