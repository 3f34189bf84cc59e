package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alem-hub/student-records/config"
	"github.com/alem-hub/student-records/internal/application/command"
	"github.com/alem-hub/student-records/internal/application/session"
	"github.com/alem-hub/student-records/internal/infrastructure/catalog"
	"github.com/alem-hub/student-records/internal/infrastructure/metrics"
	"github.com/alem-hub/student-records/internal/infrastructure/persistence"
	"github.com/alem-hub/student-records/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION WIRING
// ══════════════════════════════════════════════════════════════════════════════

// app holds what one CLI invocation needs.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	stores   *persistence.Stores
	session  *session.Session
}

// overrides are the persistent flags that replace environment settings.
type overrides struct {
	driver string
	dsn    string
}

// newApp loads configuration and opens the stores.
func newApp(cmd *cobra.Command, o overrides) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.Store.Driver = o.driver
	}
	if o.dsn != "" {
		cfg.Store.DSN = o.dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{
		Output: cmd.ErrOrStderr(),
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	}).With(logger.String("app", cfg.App.Name), logger.String("env", string(cfg.App.Environment)))

	a := &app{cfg: cfg, log: log}
	if cfg.Observability.MetricsEnabled {
		a.registry = prometheus.NewRegistry()
		a.metrics = metrics.New(a.registry)
	}

	ctx, cancel := a.timeout(cmd.Context())
	defer cancel()

	a.stores, err = persistence.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return a, nil
}

// timeout bounds one store round.
func (a *app) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.cfg.Store.QueryTimeout)
}

// within returns a runner bound to s. Each call gets its own deadline.
func (a *app) within(s *session.Session) runner {
	return func(cmd *cobra.Command, fn func(ctx context.Context, s *session.Session) error) error {
		ctx, cancel := a.timeout(cmd.Context())
		defer cancel()
		return fn(ctx, s)
	}
}

// openSession hydrates a session from the stores and seeds the course graph
// from CATALOG_PATH when the store has no courses yet.
func (a *app) openSession(ctx context.Context) (*session.Session, error) {
	s := session.New(a.stores.Students, a.stores.Courses, session.Options{
		Logger:  a.log.With(logger.Component("session")),
		Metrics: a.metrics,
		TopK:    a.cfg.Records.TopK,
	})

	hctx, cancel := a.timeout(ctx)
	defer cancel()
	if err := s.Hydrate(hctx); err != nil {
		return nil, err
	}

	if path := a.cfg.Records.CatalogPath; path != "" && s.Courses.Len() == 0 {
		c, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		if _, err := command.NewImportCatalogHandler(s).Handle(hctx, command.ImportCatalogCommand{Courses: c.Courses}); err != nil {
			return nil, err
		}
	}

	a.session = s
	return s, nil
}

// close writes metrics when enabled and releases the stores.
func (a *app) close() error {
	if a.registry != nil {
		if err := prometheus.WriteToTextfile(a.cfg.Observability.MetricsTextfile, a.registry); err != nil {
			a.log.Warn("failed to write metrics", logger.Err(err))
		}
	}
	if a.stores == nil {
		return nil
	}
	return a.stores.Close()
}
