package backend

import (
	"context"
	"time"

	"teachjournal/internal/cache"
	"teachjournal/internal/core"
	"teachjournal/internal/repository"
	"teachjournal/internal/services"
)

// CleanupFunc releases the resources a backend holds.
type CleanupFunc func() error

// BackendResult is everything the entry points need from storage: the raw
// store, cached teacher lookups for the access guard, and the optional
// event publisher.
type BackendResult struct {
	Store        repository.Store
	Teachers     repository.TeacherFinder
	TeacherCache *cache.LRUCache[core.Teacher]
	// Events is nil when AMQP is not configured.
	Events  services.EventPublisher
	Cleanup CleanupFunc
}

// Close runs Cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	SQLiteDBPath string
	DatabaseURL  string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	TeacherCacheSize int
	TeacherCacheTTL  time.Duration

	// SeedMemory fills a memory backend with the demo teachers and entries.
	SeedMemory bool
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	MemoryBackend   BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
