package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"teachjournal/internal/core"
	"teachjournal/internal/repository"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

var _ repository.Store = (*SQLiteRepository)(nil)

// dsn enables foreign keys on every pooled connection so the entry cascade
// holds.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) FindTeacherByEmail(ctx context.Context, email string) (*core.Teacher, error) {
	row, err := r.queries.GetTeacherByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get teacher by email: %w", err)
	}
	t := toCoreTeacher(row)
	return &t, nil
}

func (r *SQLiteRepository) CreateTeacher(ctx context.Context, t *core.Teacher) error {
	now := r.now().UTC()
	id, err := r.queries.CreateTeacher(ctx, CreateTeacherParams{
		TeacherID: t.Code,
		Name:      t.Name,
		Email:     t.Email,
		IsAdmin:   t.IsAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("create teacher %s: %w", t.Code, err)
	}
	t.ID = id
	t.CreatedAt, t.UpdatedAt = now, now

	slog.InfoContext(ctx, "Teacher saved to SQLite", "id", id, "teacher_id", t.Code)
	return nil
}

func (r *SQLiteRepository) ListTeachers(ctx context.Context) ([]core.Teacher, error) {
	rows, err := r.queries.ListTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	out := make([]core.Teacher, len(rows))
	for i, row := range rows {
		out[i] = toCoreTeacher(row)
	}
	return out, nil
}

func (r *SQLiteRepository) FindEntryByID(ctx context.Context, id int64) (*core.JournalEntry, error) {
	row, err := r.queries.GetEntry(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get journal entry %d: %w", id, err)
	}
	e, err := toCoreEntry(row)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteRepository) ListEntriesForTeacher(ctx context.Context, teacherID int64, f repository.EntryFilter) ([]core.JournalEntry, error) {
	limit := int64(-1)
	if f.Limit > 0 {
		limit = int64(f.Limit)
	}
	rows, err := r.queries.ListEntriesForTeacher(ctx, ListEntriesForTeacherParams{
		TeacherID: teacherID,
		From:      f.From.String(),
		To:        f.To.String(),
		Limit:     limit,
		Offset:    int64(max(f.Offset, 0)),
	})
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	out := make([]core.JournalEntry, 0, len(rows))
	for _, row := range rows {
		e, err := toCoreEntry(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *SQLiteRepository) CountEntriesForTeacher(ctx context.Context, teacherID int64, f repository.EntryFilter) (int, error) {
	n, err := r.queries.CountEntriesForTeacher(ctx, CountEntriesForTeacherParams{
		TeacherID: teacherID,
		From:      f.From.String(),
		To:        f.To.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return int(n), nil
}

// SaveEntry inserts when e.ID is zero and updates otherwise. The duration is
// always recomputed from the start and end times first.
func (r *SQLiteRepository) SaveEntry(ctx context.Context, e *core.JournalEntry) error {
	e.CalculateDuration()
	now := r.now().UTC()

	if e.ID == 0 {
		id, err := r.queries.CreateEntry(ctx, CreateEntryParams{
			TeacherID:       e.TeacherID,
			EntryDate:       e.EntryDate.String(),
			ClassName:       e.ClassName,
			Subject:         e.Subject,
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			DurationMinutes: int64(e.DurationMinutes),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("create journal entry: %w", err)
		}
		e.ID = id
		e.CreatedAt, e.UpdatedAt = now, now
		return nil
	}

	n, err := r.queries.UpdateEntry(ctx, UpdateEntryParams{
		EntryDate:       e.EntryDate.String(),
		ClassName:       e.ClassName,
		Subject:         e.Subject,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: int64(e.DurationMinutes),
		UpdatedAt:       now,
		ID:              e.ID,
	})
	if err != nil {
		return fmt.Errorf("update journal entry %d: %w", e.ID, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	e.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("delete journal entry %d: %w", id, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func toCoreTeacher(t Teacher) core.Teacher {
	return core.Teacher{
		ID:        t.ID,
		Code:      t.TeacherID,
		Name:      t.Name,
		Email:     t.Email,
		IsAdmin:   t.IsAdmin,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toCoreEntry(e JournalEntry) (core.JournalEntry, error) {
	date, err := core.ParseDate(e.EntryDate)
	if err != nil {
		return core.JournalEntry{}, fmt.Errorf("journal entry %d has invalid entry_date %q: %w", e.ID, e.EntryDate, err)
	}
	return core.JournalEntry{
		ID:              e.ID,
		TeacherID:       e.TeacherID,
		EntryDate:       date,
		ClassName:       e.ClassName,
		Subject:         e.Subject,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		DurationMinutes: int(e.DurationMinutes),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}, nil
}
