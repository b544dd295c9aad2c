// Package server exposes intake sessions and projects over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/metrics"
	"github.com/suretydesk/suretydesk/internal/server/middleware"
	"github.com/suretydesk/suretydesk/internal/service"
	"github.com/suretydesk/suretydesk/internal/session"
)

type WebAPI struct {
	router          http.Handler
	log             *zap.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Sessions *session.Manager
	Projects service.ProjectService
	Metrics  *metrics.Metrics
	// Gatherer backs /metrics. Nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	Dependencies    Dependencies
}

func ConfigureRouter(cfg Config) http.Handler {
	log := cfg.Dependencies.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 64 << 20
	}
	h := &handler{
		sessions:  cfg.Dependencies.Sessions,
		projects:  cfg.Dependencies.Projects,
		maxUpload: maxUpload,
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(middleware.Logger(log))
	if cfg.Dependencies.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Dependencies.Metrics))
	}
	router.Use(chimw.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Dependencies.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(cfg.Dependencies.Gatherer, promhttp.HandlerOpts{}))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/checklist", h.getChecklist)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.createSession)
			r.Route("/{session}", func(r chi.Router) {
				r.Get("/", h.getSession)
				r.Delete("/", h.deleteSession)
				r.Put("/mode", h.selectMode)
				r.Post("/files/{item}", h.uploadFiles)
				r.Delete("/files/{item}/{file}", h.removeFile)
				r.Post("/classify", h.classifyBatch)
				r.Put("/form", h.updateForm)
				r.Post("/extract", h.smartFill)
				r.Post("/reuse/{project}", h.reuseProject)
				r.Post("/generate", h.generate)
				r.Get("/report", h.getReport)
				r.Patch("/report", h.editReport)
				r.Put("/report", h.replaceReport)
				r.Get("/report.csv", h.exportReport)
				r.Post("/submit", h.submit)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.listProjects)
			r.Get("/{project}", h.getProject)
			r.Put("/{project}/status", h.updateStatus)
			r.Get("/{project}/logs", h.projectLogs)
		})
	})

	return router
}

func NewWebAPI(cfg Config) *WebAPI {
	log := cfg.Dependencies.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	router := ConfigureRouter(cfg)
	return &WebAPI{
		router:          router,
		log:             log,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Handler() http.Handler { return w.router }

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests.
func (w *WebAPI) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		w.log.Info("starting server", zap.String("addr", w.server.Addr))
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.log.Info("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.log.Error("graceful shutdown failed", zap.Error(err))
			return w.server.Close()
		}
	}
	return nil
}
