package rest

import (
	"context"
	"fmt"
	"net/http"

	core_port "property-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the REST API server.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string, handlers *PropertyHandler, baseLogger core_port.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(IdentityMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", handlers.SearchProperties)
			r.Post("/", handlers.CreateProperty)
			r.Get("/{propertyID}", handlers.GetPropertyByID)
			r.Put("/{propertyID}", handlers.UpdateProperty)
			r.Delete("/{propertyID}", handlers.DeleteProperty)
			r.Post("/{propertyID}/feature", handlers.ToggleFeatured)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/popular", handlers.GetPopularTerms)

			r.Group(func(r chi.Router) {
				r.Use(RequireUserMiddleware)
				r.Get("/history", handlers.GetSearchHistory)
				r.Get("/similar", handlers.GetSimilarSearches)
			})
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
