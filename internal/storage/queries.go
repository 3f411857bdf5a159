package storage

import (
	"context"
	"time"
)

const createTeacher = `
INSERT INTO teachers (teacher_id, name, email, is_admin, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateTeacherParams struct {
	TeacherID string
	Name      string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateTeacher(ctx context.Context, arg CreateTeacherParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createTeacher,
		arg.TeacherID,
		arg.Name,
		arg.Email,
		arg.IsAdmin,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const teacherColumns = `id, teacher_id, name, email, is_admin, created_at, updated_at`

const getTeacherByEmail = `
SELECT ` + teacherColumns + ` FROM teachers WHERE email = ? LIMIT 1
`

func (q *Queries) GetTeacherByEmail(ctx context.Context, email string) (Teacher, error) {
	row := q.db.QueryRowContext(ctx, getTeacherByEmail, email)
	var i Teacher
	err := row.Scan(
		&i.ID,
		&i.TeacherID,
		&i.Name,
		&i.Email,
		&i.IsAdmin,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTeachers = `
SELECT ` + teacherColumns + ` FROM teachers ORDER BY id
`

func (q *Queries) ListTeachers(ctx context.Context) ([]Teacher, error) {
	rows, err := q.db.QueryContext(ctx, listTeachers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Teacher
	for rows.Next() {
		var i Teacher
		if err := rows.Scan(
			&i.ID,
			&i.TeacherID,
			&i.Name,
			&i.Email,
			&i.IsAdmin,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const entryColumns = `id, teacher_id, entry_date, class_name, subject, start_time, end_time, duration_minutes, created_at, updated_at`

const getEntry = `
SELECT ` + entryColumns + ` FROM journal_entries WHERE id = ? LIMIT 1
`

func (q *Queries) GetEntry(ctx context.Context, id int64) (JournalEntry, error) {
	row := q.db.QueryRowContext(ctx, getEntry, id)
	var i JournalEntry
	err := row.Scan(
		&i.ID,
		&i.TeacherID,
		&i.EntryDate,
		&i.ClassName,
		&i.Subject,
		&i.StartTime,
		&i.EndTime,
		&i.DurationMinutes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// Empty From/To strings leave that side of the range open; a negative
// Limit returns every row.
const listEntriesForTeacher = `
SELECT ` + entryColumns + ` FROM journal_entries
WHERE teacher_id = ?1
  AND (?2 = '' OR entry_date >= ?2)
  AND (?3 = '' OR entry_date <= ?3)
ORDER BY entry_date DESC, start_time DESC, id DESC
LIMIT ?4 OFFSET ?5
`

type ListEntriesForTeacherParams struct {
	TeacherID int64
	From      string
	To        string
	Limit     int64
	Offset    int64
}

func (q *Queries) ListEntriesForTeacher(ctx context.Context, arg ListEntriesForTeacherParams) ([]JournalEntry, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesForTeacher,
		arg.TeacherID,
		arg.From,
		arg.To,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []JournalEntry
	for rows.Next() {
		var i JournalEntry
		if err := rows.Scan(
			&i.ID,
			&i.TeacherID,
			&i.EntryDate,
			&i.ClassName,
			&i.Subject,
			&i.StartTime,
			&i.EndTime,
			&i.DurationMinutes,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEntriesForTeacher = `
SELECT COUNT(*) FROM journal_entries
WHERE teacher_id = ?1
  AND (?2 = '' OR entry_date >= ?2)
  AND (?3 = '' OR entry_date <= ?3)
`

type CountEntriesForTeacherParams struct {
	TeacherID int64
	From      string
	To        string
}

func (q *Queries) CountEntriesForTeacher(ctx context.Context, arg CountEntriesForTeacherParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEntriesForTeacher, arg.TeacherID, arg.From, arg.To)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createEntry = `
INSERT INTO journal_entries (
    teacher_id, entry_date, class_name, subject, start_time, end_time,
    duration_minutes, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateEntryParams struct {
	TeacherID       int64
	EntryDate       string
	ClassName       string
	Subject         string
	StartTime       string
	EndTime         string
	DurationMinutes int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createEntry,
		arg.TeacherID,
		arg.EntryDate,
		arg.ClassName,
		arg.Subject,
		arg.StartTime,
		arg.EndTime,
		arg.DurationMinutes,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const updateEntry = `
UPDATE journal_entries
SET entry_date = ?, class_name = ?, subject = ?, start_time = ?, end_time = ?,
    duration_minutes = ?, updated_at = ?
WHERE id = ?
`

type UpdateEntryParams struct {
	EntryDate       string
	ClassName       string
	Subject         string
	StartTime       string
	EndTime         string
	DurationMinutes int64
	UpdatedAt       time.Time
	ID              int64
}

func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateEntry,
		arg.EntryDate,
		arg.ClassName,
		arg.Subject,
		arg.StartTime,
		arg.EndTime,
		arg.DurationMinutes,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteEntry = `
DELETE FROM journal_entries WHERE id = ?
`

func (q *Queries) DeleteEntry(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEntry, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
