// Package repository defines the persistence ports used by the services and
// the access guard.
package repository

import (
	"context"

	"teachjournal/internal/core"
)

// DefaultPageSize is the journal listing page size.
const DefaultPageSize = 10

// Ports for outbound adapters.
type (
	// TeacherFinder resolves an authenticated email to a teacher.
	TeacherFinder interface {
		// FindTeacherByEmail returns nil, nil when no teacher has the email.
		FindTeacherByEmail(ctx context.Context, email string) (*core.Teacher, error)
	}

	TeacherStore interface {
		TeacherFinder
		CreateTeacher(ctx context.Context, t *core.Teacher) error
		ListTeachers(ctx context.Context) ([]core.Teacher, error)
	}

	// EntryStore persists journal entries. SaveEntry derives the duration
	// before writing.
	EntryStore interface {
		// FindEntryByID returns nil, nil when the entry does not exist.
		FindEntryByID(ctx context.Context, id int64) (*core.JournalEntry, error)
		// ListEntriesForTeacher orders by entry_date desc, start_time desc.
		ListEntriesForTeacher(ctx context.Context, teacherID int64, f EntryFilter) ([]core.JournalEntry, error)
		CountEntriesForTeacher(ctx context.Context, teacherID int64, f EntryFilter) (int, error)
		SaveEntry(ctx context.Context, e *core.JournalEntry) error
		DeleteEntry(ctx context.Context, id int64) error
	}

	// Store is the full persistence surface a backend provides.
	Store interface {
		TeacherStore
		EntryStore
		Ping(ctx context.Context) error
	}
)

// EntryFilter narrows a listing. Zero dates are unbounded and a zero Limit
// returns everything.
type EntryFilter struct {
	From   core.Date
	To     core.Date
	Limit  int
	Offset int
}

// OnDate selects a single calendar date.
func OnDate(d core.Date) EntryFilter {
	return EntryFilter{From: d, To: d}
}

// Between selects an inclusive date range.
func Between(from, to core.Date) EntryFilter {
	return EntryFilter{From: from, To: to}
}

// Page returns a filter for the given 1-based page.
func Page(page, perPage int) EntryFilter {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPageSize
	}
	return EntryFilter{Limit: perPage, Offset: (page - 1) * perPage}
}
