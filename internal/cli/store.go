package cli

import (
	"context"
	"fmt"

	"teachjournal/internal/config"
	"teachjournal/internal/repository"
	"teachjournal/internal/storage"
	"teachjournal/internal/storage/postgres"
)

// schema runs migrations against the configured persistent backend.
type schema struct {
	up      func() error
	down    func(steps int) error
	version func() (uint, bool, error)
}

func schemaFor(cfg *config.Config) (schema, error) {
	switch cfg.DataBackend {
	case "sqlite":
		path := cfg.SQLiteDBPath
		return schema{
			up:      func() error { return storage.RunMigrations(path) },
			down:    func(steps int) error { return storage.RollbackMigrations(path, steps) },
			version: func() (uint, bool, error) { return storage.MigrationVersion(path) },
		}, nil
	case "postgres":
		url := cfg.DatabaseURL
		return schema{
			up:      func() error { return postgres.RunMigrations(url) },
			down:    func(steps int) error { return postgres.RollbackMigrations(url, steps) },
			version: func() (uint, bool, error) { return postgres.MigrationVersion(url) },
		}, nil
	}
	return schema{}, fmt.Errorf("command requires the sqlite or postgres backend, got %q", cfg.DataBackend)
}

// openStore opens the persistent store the configuration names. The memory
// backend is rejected because nothing outlives the process.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func() error, error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize SQLite repository at %s: %w", cfg.SQLiteDBPath, err)
		}
		return repo, repo.Close, nil
	case "postgres":
		repo, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize PostgreSQL repository: %w", err)
		}
		return repo, repo.Close, nil
	}
	return nil, nil, fmt.Errorf("command requires the sqlite or postgres backend, got %q", cfg.DataBackend)
}
