package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mindmapper/application/services"
	"mindmapper/infrastructure/config"
	"mindmapper/interfaces/http/rest/handlers"
	"mindmapper/interfaces/http/rest/middleware"
	"mindmapper/interfaces/websocket"
	apperrors "mindmapper/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	maps      *services.MapService
	nodes     *services.NodeService
	templates *services.TemplateService
	exports   *services.ExportService
	ws        *websocket.Server
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	maps *services.MapService,
	nodes *services.NodeService,
	templates *services.TemplateService,
	exports *services.ExportService,
	ws *websocket.Server,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		maps:      maps,
		nodes:     nodes,
		templates: templates,
		exports:   exports,
		ws:        ws,
		logger:    logger,
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

	// CORS configuration
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	errorHandler := apperrors.NewErrorHandler(rt.logger, rt.cfg.IsDevelopment())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		mapHandler := handlers.NewMapHandler(rt.maps, errorHandler, rt.logger)

		// Map endpoints
		r.Route("/maps", func(r chi.Router) {
			r.Post("/", mapHandler.CreateMap)
			r.Get("/", mapHandler.ListMaps)
			r.Get("/{mapID}", mapHandler.GetMap)
			r.Put("/{mapID}", mapHandler.UpdateMap)
			r.Delete("/{mapID}", mapHandler.DeleteMap)
			r.Post("/{mapID}/rename", mapHandler.RenameMap)
			r.Post("/{mapID}/duplicate", mapHandler.DuplicateMap)
			r.Get("/{mapID}/score", mapHandler.MapScore)
			r.Get("/{mapID}/stats", mapHandler.MapStats)

			// Node and connection endpoints within a map
			nodeHandler := handlers.NewNodeHandler(rt.nodes, errorHandler, rt.logger)
			r.Post("/{mapID}/nodes", nodeHandler.AddNode)
			r.Put("/{mapID}/nodes/{nodeID}", nodeHandler.UpdateNode)
			r.Delete("/{mapID}/nodes/{nodeID}", nodeHandler.DeleteNode)
			r.Post("/{mapID}/connections", nodeHandler.AddConnection)
			r.Delete("/{mapID}/connections/{connectionID}", nodeHandler.DeleteConnection)

			// Export endpoint
			exportHandler := handlers.NewExportHandler(rt.exports, errorHandler, rt.cfg.DefaultLanguage, rt.logger)
			r.Get("/{mapID}/export/{format}", exportHandler.Export)
		})

		// Template endpoints
		r.Route("/templates", func(r chi.Router) {
			templateHandler := handlers.NewTemplateHandler(rt.templates, errorHandler, rt.cfg.DefaultLanguage, rt.logger)
			r.Get("/", templateHandler.ListTemplates)
			r.Get("/{templateID}", templateHandler.GetTemplate)
			r.Post("/{templateID}/apply", templateHandler.ApplyTemplate)
		})

		// Whole-document import and cross-map search
		r.Post("/import", mapHandler.ImportMap)
		r.Get("/search", mapHandler.SearchMaps)

		// Global statistics
		r.Get("/stats", mapHandler.GlobalStats)

		// Runtime settings
		r.Get("/settings", handlers.NewSystemHandler(rt.cfg, rt.logger).Settings)
	})

	// Realtime endpoint, one room per map
	router.Get("/ws/{mapID}", rt.ws.HandleConnection)

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
