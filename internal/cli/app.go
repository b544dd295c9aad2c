package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/suretydesk/suretydesk/internal/analysis"
	"github.com/suretydesk/suretydesk/internal/config"
	"github.com/suretydesk/suretydesk/internal/db"
	"github.com/suretydesk/suretydesk/internal/llm"
	"github.com/suretydesk/suretydesk/internal/metrics"
	"github.com/suretydesk/suretydesk/internal/reconcile"
	"github.com/suretydesk/suretydesk/internal/repository"
	"github.com/suretydesk/suretydesk/internal/service"
	"github.com/suretydesk/suretydesk/internal/session"
)

// App holds what the commands run against. Tests build it directly;
// the binary fills it from configuration in the root command's pre-run.
type App struct {
	Config   config.Config
	Log      *zap.Logger
	Projects service.ProjectService
	Deps     session.Deps
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// IsInteractive reports whether prompts can be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil answers no.
	Confirm func(title, description string) (bool, error)

	closers []func() error
}

func (a *App) ready() bool { return a.Projects != nil }

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

// wire builds the store, LLM client, analysis services and metrics from
// cfg. A missing Gemini key leaves the analysis steps unconfigured so
// offline commands still work.
func (a *App) wire(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	a.Config = cfg
	a.Log = log

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Registry = reg
	a.Metrics = metrics.New(reg)

	store, err := a.openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	a.Projects = service.NewProjectService(store,
		service.WithObserver(service.NewLogUseCaseObserver(log)),
		service.WithEvents(a.Metrics),
	)

	deps := session.Deps{
		Projects: a.Projects,
		Log:      log,
		OnFile:   a.Metrics.ObserveFile,
		OnBatch:  a.Metrics.ObserveBatch,
	}

	llmCfg := cfg.LLMConfig()
	var observer llm.Observer = a.Metrics
	if llmCfg.LogCalls {
		observer = llm.Observers{llm.NewLogObserver(log), a.Metrics}
	}
	client, err := llm.New(ctx, llmCfg, observer)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		log.Warn("no LLM api key configured, classification and report drafting are disabled",
			zap.String("provider", string(llmCfg.Provider)))
	case err != nil:
		return fmt.Errorf("creating llm client: %w", err)
	default:
		var classifier reconcile.Classifier = analysis.NewClassificationService(client, log)
		if cfg.Classification.FallbackUnclassified {
			classifier = analysis.FallbackClassifier{Inner: classifier, Log: log}
		}
		deps.Reconciler = reconcile.New(classifier, log,
			reconcile.WithReadLimit(cfg.Classification.ReadConcurrency))
		deps.Extractor = analysis.NewExtractionService(client, log)
		deps.Reporter = analysis.NewReportService(client, log)
	}
	a.Deps = deps
	return nil
}

func (a *App) openStore(ctx context.Context, cfg config.StoreConfig) (repository.Store, error) {
	switch cfg.Driver {
	case "redis":
		client := repository.NewRedisClient(repository.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		store := repository.NewRedisStore(client, cfg.Redis.KeyPrefix)
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, nil
	default:
		database, err := db.OpenDB(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		return repository.NewSQLiteStore(database), nil
	}
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return errors.Join(errs...)
}
