// Package postgres stores teachers and journal entries in PostgreSQL
// through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

const entryColumns = `id, teacher_id, entry_date, class_name, subject, start_time, end_time,
	duration_minutes, created_at, updated_at`

const teacherColumns = `id, teacher_id, name, email, is_admin, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ repository.Store = (*Repository)(nil)

// Open migrates the database and connects a pool to it.
func Open(ctx context.Context, databaseURL string) (*Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	if err := RunMigrations(databaseURL); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Repository{pool: pool, now: time.Now}, nil
}

// Close releases the pool.
func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repository) FindTeacherByEmail(ctx context.Context, email string) (*core.Teacher, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+teacherColumns+" FROM teachers WHERE email = $1", email)
	t, err := scanTeacher(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get teacher by email: %w", err)
	}
	return &t, nil
}

func (r *Repository) CreateTeacher(ctx context.Context, t *core.Teacher) error {
	now := r.now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (teacher_id, name, email, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		t.Code, t.Name, t.Email, t.IsAdmin, now).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("create teacher %s: %w", t.Code, err)
	}
	t.CreatedAt, t.UpdatedAt = now, now

	slog.InfoContext(ctx, "Teacher saved to PostgreSQL", "id", t.ID, "teacher_id", t.Code)
	return nil
}

func (r *Repository) ListTeachers(ctx context.Context) ([]core.Teacher, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+teacherColumns+" FROM teachers ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	teachers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.Teacher, error) {
		return scanTeacher(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

func (r *Repository) FindEntryByID(ctx context.Context, id int64) (*core.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+entryColumns+" FROM journal_entries WHERE id = $1", id)
	e, err := scanEntry(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("get journal entry %d: %w", id, err)
	}
	return &e, nil
}

func (r *Repository) ListEntriesForTeacher(ctx context.Context, teacherID int64, f repository.EntryFilter) ([]core.JournalEntry, error) {
	var limit any
	if f.Limit > 0 {
		limit = int64(f.Limit)
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+entryColumns+` FROM journal_entries
		WHERE teacher_id = $1
		  AND ($2::date IS NULL OR entry_date >= $2::date)
		  AND ($3::date IS NULL OR entry_date <= $3::date)
		ORDER BY entry_date DESC, start_time DESC, id DESC
		LIMIT $4 OFFSET $5`,
		teacherID, dateArg(f.From), dateArg(f.To), limit, int64(max(f.Offset, 0)))
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.JournalEntry, error) {
		return scanEntry(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

func (r *Repository) CountEntriesForTeacher(ctx context.Context, teacherID int64, f repository.EntryFilter) (int, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM journal_entries
		WHERE teacher_id = $1
		  AND ($2::date IS NULL OR entry_date >= $2::date)
		  AND ($3::date IS NULL OR entry_date <= $3::date)`,
		teacherID, dateArg(f.From), dateArg(f.To)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return int(n), nil
}

// SaveEntry inserts when e.ID is zero and updates otherwise. The duration is
// always recomputed from the start and end times first.
func (r *Repository) SaveEntry(ctx context.Context, e *core.JournalEntry) error {
	e.CalculateDuration()
	now := r.now().UTC()

	if e.ID == 0 {
		err := r.pool.QueryRow(ctx,
			`INSERT INTO journal_entries
			(teacher_id, entry_date, class_name, subject, start_time, end_time, duration_minutes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`,
			e.TeacherID, e.EntryDate.Time, e.ClassName, e.Subject, e.StartTime, e.EndTime,
			e.DurationMinutes, now).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("create journal entry: %w", err)
		}
		e.CreatedAt, e.UpdatedAt = now, now
		return nil
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE journal_entries
		SET entry_date = $1, class_name = $2, subject = $3, start_time = $4, end_time = $5,
		    duration_minutes = $6, updated_at = $7
		WHERE id = $8`,
		e.EntryDate.Time, e.ClassName, e.Subject, e.StartTime, e.EndTime,
		e.DurationMinutes, now, e.ID)
	if err != nil {
		return fmt.Errorf("update journal entry %d: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	e.UpdatedAt = now
	return nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM journal_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete journal entry %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// dateArg maps the zero date to NULL, meaning unbounded.
func dateArg(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}

func scanTeacher(row pgx.Row) (core.Teacher, error) {
	var t core.Teacher
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Email, &t.IsAdmin, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanEntry(row pgx.Row) (core.JournalEntry, error) {
	var (
		e    core.JournalEntry
		date time.Time
	)
	err := row.Scan(&e.ID, &e.TeacherID, &date, &e.ClassName, &e.Subject, &e.StartTime, &e.EndTime,
		&e.DurationMinutes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return core.JournalEntry{}, err
	}
	e.EntryDate = core.DateOf(date)
	return e, nil
}
