package services

import (
	"context"
	"fmt"
	"log/slog"

	"teachjournal/internal/access"
	"teachjournal/internal/amqp"
	"teachjournal/internal/auth"
	"teachjournal/internal/core"
	applog "teachjournal/internal/log"
	"teachjournal/internal/repository"
)

// EventPublisher announces entry changes. A nil publisher disables events.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error
}

// EntryPage is one page of a teacher's journal, newest first.
type EntryPage struct {
	Entries  []core.JournalEntry `json:"entries"`
	Total    int                 `json:"total"`
	Page     int                 `json:"page"`
	PerPage  int                 `json:"per_page"`
	LastPage int                 `json:"last_page"`
}

// JournalService runs every entry operation through the access guard and
// persists through the entry store, which derives durations on save.
type JournalService struct {
	entries repository.EntryStore
	guard   *access.Guard
	events  EventPublisher
	perPage int
}

func NewJournalService(entries repository.EntryStore, guard *access.Guard, events EventPublisher) *JournalService {
	return &JournalService{
		entries: entries,
		guard:   guard,
		events:  events,
		perPage: repository.DefaultPageSize,
	}
}

// List returns the given 1-based page of the caller's entries.
func (s *JournalService) List(ctx context.Context, id auth.Identity, page int) (EntryPage, error) {
	teacher, err := s.guard.ResolveTeacher(ctx, id)
	if err != nil {
		return EntryPage{}, err
	}
	if page < 1 {
		page = 1
	}

	total, err := s.entries.CountEntriesForTeacher(ctx, teacher.ID, repository.EntryFilter{})
	if err != nil {
		return EntryPage{}, fmt.Errorf("count entries: %w", err)
	}
	entries, err := s.entries.ListEntriesForTeacher(ctx, teacher.ID, repository.Page(page, s.perPage))
	if err != nil {
		return EntryPage{}, fmt.Errorf("list entries: %w", err)
	}

	lastPage := (total + s.perPage - 1) / s.perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if entries == nil {
		entries = []core.JournalEntry{}
	}
	return EntryPage{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PerPage:  s.perPage,
		LastPage: lastPage,
	}, nil
}

// Create validates the input and records a new entry for the caller.
func (s *JournalService) Create(ctx context.Context, id auth.Identity, in core.EntryInput) (core.JournalEntry, error) {
	in = in.Normalize()
	if err := core.ValidateEntryInput(in); err != nil {
		return core.JournalEntry{}, err
	}
	teacher, err := s.guard.ResolveTeacher(ctx, id)
	if err != nil {
		return core.JournalEntry{}, err
	}

	entry := core.JournalEntry{TeacherID: teacher.ID}
	if err := entry.Apply(in); err != nil {
		return core.JournalEntry{}, err
	}
	if err := s.entries.SaveEntry(ctx, &entry); err != nil {
		return core.JournalEntry{}, fmt.Errorf("save entry: %w", err)
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogEntrySaved(ctx, applog.OpCreate, entry.ID, teacher.ID, entry.EntryDate.String(), entry.DurationMinutes)
	s.publish(ctx, amqp.EntryCreated, entry)
	return entry, nil
}

// Get returns an entry the caller owns.
func (s *JournalService) Get(ctx context.Context, id auth.Identity, entryID int64) (core.JournalEntry, error) {
	entry, _, err := s.load(ctx, id, entryID)
	if err != nil {
		return core.JournalEntry{}, err
	}
	return *entry, nil
}

// Update replaces every editable field of an entry the caller owns. The
// duration is recomputed on save, never carried over.
func (s *JournalService) Update(ctx context.Context, id auth.Identity, entryID int64, in core.EntryInput) (core.JournalEntry, error) {
	entry, _, err := s.load(ctx, id, entryID)
	if err != nil {
		return core.JournalEntry{}, err
	}

	in = in.Normalize()
	if err := core.ValidateEntryInput(in); err != nil {
		return core.JournalEntry{}, err
	}
	if err := entry.Apply(in); err != nil {
		return core.JournalEntry{}, err
	}
	if err := s.entries.SaveEntry(ctx, entry); err != nil {
		return core.JournalEntry{}, fmt.Errorf("save entry: %w", err)
	}

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogEntrySaved(ctx, applog.OpUpdate, entry.ID, entry.TeacherID, entry.EntryDate.String(), entry.DurationMinutes)
	s.publish(ctx, amqp.EntryUpdated, *entry)
	return *entry, nil
}

// Delete removes an entry the caller owns.
func (s *JournalService) Delete(ctx context.Context, id auth.Identity, entryID int64) error {
	entry, _, err := s.load(ctx, id, entryID)
	if err != nil {
		return err
	}
	if err := s.entries.DeleteEntry(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	s.publish(ctx, amqp.EntryDeleted, *entry)
	return nil
}

func (s *JournalService) load(ctx context.Context, id auth.Identity, entryID int64) (*core.JournalEntry, core.Teacher, error) {
	entry, err := s.entries.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, core.Teacher{}, fmt.Errorf("find entry: %w", err)
	}
	teacher, err := s.guard.AuthorizeEntryAccess(ctx, id, entry)
	if err != nil {
		return nil, core.Teacher{}, err
	}
	return entry, teacher, nil
}

// publish never fails the caller: the entry is already persisted.
func (s *JournalService) publish(ctx context.Context, t amqp.EventType, e core.JournalEntry) {
	if s.events == nil {
		return
	}
	msg := amqp.NewEntryEventMessage(t, e.ID, e.TeacherID, e.DurationMinutes)
	if err := s.events.PublishEntryEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"type", t,
			"entry_id", e.ID,
			"error", err)
	}
}
