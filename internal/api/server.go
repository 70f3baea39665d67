package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/blogsum/internal/config"
	"github.com/dgallion1/blogsum/internal/pipeline"
	"github.com/dgallion1/blogsum/internal/store"
	"github.com/dgallion1/blogsum/internal/translate"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for blogsum.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	summaries    store.Summaries
	archive      store.Archive
	translator   translate.Translator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. summaries, archive and
// translator may be nil; the endpoints that need them then report 503.
func NewServer(orch *pipeline.Orchestrator, summaries store.Summaries, archive store.Archive, translator translate.Translator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		summaries:    summaries,
		archive:      archive,
		translator:   translator,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/summarize", s.handleSummarize)
		r.Post("/api/summarize/text", s.handleSummarizeText)
		r.Post("/api/summarize/file", s.handleSummarizeFile)
		r.Post("/api/summarize/batch", s.handleBatch)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)

		r.Get("/api/recent", s.handleRecent)
		r.Get("/api/archive", s.handleArchive)
		r.Get("/api/stats/translation", s.handleTranslationStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
