// Package api serves the canvas service over HTTP.
//
// JSON endpoints run through the same tool registry as the MCP server, so
// they validate arguments identically and answer with the tool [tools.Result]
// envelope. Error codes map to HTTP status via [StatusFor]. Exports are
// served as raw bytes with their format's content type.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/canvaskit/pkg/buildinfo"
	"github.com/matzehuels/canvaskit/pkg/service"
	"github.com/matzehuels/canvaskit/pkg/tools"
)

// MaxBodyBytes caps request bodies, including imported documents.
const MaxBodyBytes = 10 << 20

// Server holds the handlers' dependencies.
type Server struct {
	svc      *service.Service
	registry *tools.Registry
	logger   *log.Logger
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allow list. The default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// New creates a Server. The registry must wrap svc.
func New(svc *service.Service, reg *tools.Registry, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{svc: svc, registry: reg, logger: logger, origins: []string{"*"}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/canvases", func(r chi.Router) {
			r.Get("/", s.tool(tools.CanvasList))
			r.Post("/", s.tool(tools.CanvasCreate))
			r.Post("/import", s.importCanvas)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.tool(tools.CanvasGet))
				r.Delete("/", s.tool(tools.CanvasDelete))
				r.Post("/nodes", s.tool(tools.CanvasAddNode))
				r.Patch("/nodes/{nodeID}", s.tool(tools.CanvasUpdateNode))
				r.Delete("/nodes/{nodeID}", s.tool(tools.CanvasDeleteNode))
				r.Post("/connections", s.tool(tools.CanvasAddConnection))
				r.Delete("/connections/{connID}", s.tool(tools.CanvasDeleteConnection))
				r.Post("/layout", s.tool(tools.CanvasLayoutAuto))
				r.Get("/export/{format}", s.export)
			})
		})

		r.Post("/mindmaps", s.tool(tools.MindmapCreate))
		r.Post("/mindmaps/{id}/branches", s.tool(tools.MindmapAddBranch))
		r.Post("/workflows", s.tool(tools.WorkflowCreate))

		r.Get("/tools", s.listTools)
		r.Post("/tools/{name}", s.callTool)
	})

	return r
}

// NewHTTPServer wraps h with the timeouts used by `canvaskit serve`.
func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}
