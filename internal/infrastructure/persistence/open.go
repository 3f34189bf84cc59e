// Package persistence selects and opens the configured record and course
// stores.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/student-records/config"
	"github.com/alem-hub/student-records/internal/domain/course"
	"github.com/alem-hub/student-records/internal/domain/student"
	"github.com/alem-hub/student-records/internal/infrastructure/persistence/badger"
	"github.com/alem-hub/student-records/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/student-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/student-records/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/student-records/internal/infrastructure/persistence/sqlite"
	"github.com/alem-hub/student-records/pkg/logger"
	"github.com/alem-hub/student-records/pkg/retry"
)

// ErrUnknownDriver is returned for a driver name Open does not know.
var ErrUnknownDriver = errors.New("persistence: unknown store driver")

// Stores is an opened pair of stores sharing one backend.
type Stores struct {
	Driver   string
	Students student.Store
	Courses  course.Store

	migrate func(ctx context.Context) error
	close   func() error
}

// Migrate creates or upgrades the backend schema. Drivers without a schema
// return nil.
func (s *Stores) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(ctx)
}

// Close releases the backend.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the backend named by cfg.Store.Driver.
// SQLite and Badger apply their schema on open; PostgreSQL needs Migrate.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("persistence"), logger.Driver(cfg.Store.Driver))

	var (
		stores *Stores
		err    error
	)
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		stores, err = openSQLite(ctx, cfg.Store.DSN)
	case config.DriverPostgres:
		stores, err = openPostgres(ctx, cfg.Store.DSN, log)
	case config.DriverRedis:
		stores, err = openRedis(ctx, cfg.Redis, log)
	case config.DriverBadger:
		stores, err = openBadger(cfg.Store.Path, log)
	case config.DriverMemory:
		stores = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Store.Driver)
	}
	if err != nil {
		log.Error("failed to open store", logger.Err(err))
		return nil, err
	}

	stores.Driver = cfg.Store.Driver
	log.Debug("store opened")
	return stores, nil
}

// NewMemory returns fresh in-memory stores.
func NewMemory() *Stores {
	return &Stores{
		Driver:   config.DriverMemory,
		Students: memory.NewStudentStore(),
		Courses:  memory.NewCourseStore(),
	}
}

func openSQLite(ctx context.Context, dsn string) (*Stores, error) {
	db, err := sqlite.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Students: db.Students(),
		Courses:  db.Courses(),
		migrate:  db.Migrate,
		close:    db.Close,
	}, nil
}

// dialRetrier retries the first round trip to a networked store.
func dialRetrier(log *logger.Logger) *retry.Retrier {
	return retry.StoreConnect(
		retry.WithRetryIf(func(err error) bool {
			return errors.Is(err, postgres.ErrUnreachable) || errors.Is(err, redis.ErrConnection)
		}),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("store unreachable, retrying",
				logger.Int("attempt", attempt), logger.Duration("delay", delay), logger.Err(err))
		}),
	)
}

func openPostgres(ctx context.Context, dsn string, log *logger.Logger) (*Stores, error) {
	var conn *postgres.Connection
	err := dialRetrier(log).Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.Connect(ctx, dsn, postgres.DefaultPoolOptions())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Stores{
		Students: postgres.NewStudentStore(conn),
		Courses:  postgres.NewCourseStore(conn),
		migrate:  postgres.NewMigrator(conn).Migrate,
		close:    conn.Close,
	}, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*Stores, error) {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Host
	rc.Port = cfg.Port
	rc.Password = cfg.Password
	rc.DB = cfg.DB
	rc.Prefix = cfg.Prefix
	rc.DialTimeout = cfg.DialTimeout
	rc.ReadTimeout = cfg.ReadTimeout
	rc.WriteTimeout = cfg.WriteTimeout

	var client *redis.Client
	err := dialRetrier(log).Do(ctx, func(ctx context.Context) error {
		var err error
		client, err = redis.Connect(ctx, rc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Stores{
		Students: client.Students(),
		Courses:  client.Courses(),
		close:    client.Close,
	}, nil
}

func openBadger(path string, log *logger.Logger) (*Stores, error) {
	cfg := badger.DefaultConfig(path)
	cfg.Logger = log

	db, err := badger.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Students: db.Students(),
		Courses:  db.Courses(),
		close:    db.Close,
	}, nil
}
