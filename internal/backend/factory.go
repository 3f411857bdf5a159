package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"teachjournal/internal/amqp"
	"teachjournal/internal/cache"
	"teachjournal/internal/repository"
	"teachjournal/internal/repository/memory"
	"teachjournal/internal/storage"
	"teachjournal/internal/storage/postgres"
)

const (
	defaultTeacherCacheSize = 256
	defaultTeacherCacheTTL  = 5 * time.Minute
	cacheSweepInterval      = time.Minute
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, now: time.Now}
}

// CreateBackend opens the configured store, wraps teacher lookups in a
// cache and connects the optional event publisher.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store      repository.Store
		closeStore func() error
		err        error
	)
	switch config.Type {
	case SQLiteBackend:
		store, closeStore, err = f.createSQLiteStore(config)
	case PostgresBackend:
		store, closeStore, err = f.createPostgresStore(ctx, config)
	case MemoryBackend:
		store, err = f.createMemoryStore(ctx, config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	size, ttl := config.TeacherCacheSize, config.TeacherCacheTTL
	if size < 1 {
		size = defaultTeacherCacheSize
	}
	if ttl <= 0 {
		ttl = defaultTeacherCacheTTL
	}
	teachers := repository.NewCachedTeachers(store, size, ttl)
	manager := cache.NewManager(f.logger)
	manager.Register(teachers.Cache())
	manager.StartCleanup(cacheSweepInterval)

	result := &BackendResult{
		Store:        store,
		Teachers:     teachers,
		TeacherCache: teachers.Cache(),
	}

	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Events = amqpClient
		}
	}

	result.Cleanup = func() error {
		manager.Stop()
		var errs []error
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		if closeStore != nil {
			errs = append(errs, closeStore())
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"teacher_cache_size", size,
		"teacher_cache_ttl", ttl,
		"events_enabled", result.Events != nil)
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (repository.Store, func() error, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createPostgresStore(ctx context.Context, config Config) (repository.Store, func() error, error) {
	repo, err := postgres.Open(ctx, config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PostgreSQL repository: %w", err)
	}
	f.logger.Info("Initialized PostgreSQL store")
	return repo, repo.Close, nil
}

func (f *DefaultFactory) createMemoryStore(ctx context.Context, config Config) (repository.Store, error) {
	store := memory.NewStore()
	if !config.SeedMemory {
		f.logger.Info("Initialized empty memory store")
		return store, nil
	}

	now := f.now()
	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))
	res, err := storage.Seed(ctx, store, storage.DefaultSeedTeachers(), now, rng)
	if err != nil {
		return nil, fmt.Errorf("seed memory store: %w", err)
	}
	f.logger.Info("Initialized seeded memory store",
		"teachers", res.Teachers,
		"entries", res.Entries)
	return store, nil
}
