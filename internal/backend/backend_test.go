package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"teachjournal/internal/config"
	"teachjournal/internal/repository"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:      "memory",
		TeacherCacheSize: 32,
		TeacherCacheTTL:  time.Minute,
	}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != MemoryBackend || !got.SeedMemory || got.TeacherCacheSize != 32 {
		t.Errorf("FromAppConfig() = %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite with path", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres with url", Config{Type: PostgresBackend, DatabaseURL: "postgres://localhost/journal"}, false},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"unknown type", Config{Type: "mysql"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://localhost", AMQPExchange: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "sqlite" || got[1] != "postgres" || got[2] != "memory" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestCreateBackend_SeededMemory(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend, SeedMemory: true})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	t.Cleanup(func() { _ = res.Close() })

	if res.Events != nil {
		t.Error("events enabled without AMQP URL")
	}

	teacher, err := res.Teachers.FindTeacherByEmail(ctx, "sarah.johnson@school.edu")
	if err != nil || teacher == nil {
		t.Fatalf("seeded teacher lookup = %v, %v", teacher, err)
	}
	if res.TeacherCache.Size() != 1 {
		t.Errorf("teacher cache size = %d, want 1", res.TeacherCache.Size())
	}

	n, err := res.Store.CountEntriesForTeacher(ctx, teacher.ID, repository.EntryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 20 {
		t.Errorf("seeded entries = %d, want 20", n)
	}
}

func TestCreateBackend_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if err := res.Store.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	teacher, err := res.Teachers.FindTeacherByEmail(ctx, "nobody@school.edu")
	if err != nil || teacher != nil {
		t.Errorf("empty database lookup = %v, %v", teacher, err)
	}
	if err := res.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
