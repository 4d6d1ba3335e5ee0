package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	core_port "rental-hub-service/internal/core/port"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	propertyHandlers *PropertyHandler,
	searchHandlers *SearchHandler,
	crawlerHandlers *CrawlerHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// каталог объявлений
		r.Get("/properties", propertyHandlers.ListProperties)
		r.Get("/properties/{id}", propertyHandlers.GetProperty)

		// поиск
		r.Get("/search", searchHandlers.StructuredSearch)
		r.Post("/search/natural", searchHandlers.NaturalSearch)
		r.Get("/search/suggestions", searchHandlers.Suggestions)

		// админка краулера
		r.Post("/crawler/run", crawlerHandlers.TriggerRun)
		r.Get("/crawler/logs", crawlerHandlers.ListLogs)
		r.Get("/crawler/stats", crawlerHandlers.Stats)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
