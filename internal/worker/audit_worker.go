package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"teachjournal/internal/amqp"
	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

// AuditStore is what the audit worker reads and, when repairing, writes.
type AuditStore interface {
	repository.EntryStore
	ListTeachers(ctx context.Context) ([]core.Teacher, error)
}

// AuditStats are running counters since the worker started.
type AuditStats struct {
	Processed  int64 `json:"processed"`
	Mismatched int64 `json:"mismatched"`
	ZeroLength int64 `json:"zero_length"`
	Repaired   int64 `json:"repaired"`
	Missing    int64 `json:"missing"`
}

// AuditWorker checks that stored durations still match their start and end
// times. A zero duration is reported separately because it is also what an
// unparseable time produces.
type AuditWorker struct {
	store  AuditStore
	repair bool

	processed  atomic.Int64
	mismatched atomic.Int64
	zeroLength atomic.Int64
	repaired   atomic.Int64
	missing    atomic.Int64
}

// NewAuditWorker creates a worker. With repair set, drifted entries are
// saved again so the store recomputes their duration.
func NewAuditWorker(store AuditStore, repair bool) *AuditWorker {
	return &AuditWorker{store: store, repair: repair}
}

// HandleEntryEvent processes a single entry event from AMQP.
func (w *AuditWorker) HandleEntryEvent(ctx context.Context, msg *amqp.EntryEventMessage) error {
	w.processed.Add(1)

	entry, err := w.store.FindEntryByID(ctx, msg.EntryID)
	if err != nil {
		return fmt.Errorf("get entry %d: %w", msg.EntryID, err)
	}

	if msg.Type == amqp.EntryDeleted {
		if entry != nil {
			slog.WarnContext(ctx, "Deleted entry still present", "entry_id", msg.EntryID)
		}
		return nil
	}
	if entry == nil {
		// deleted after the event was raised
		w.missing.Add(1)
		slog.InfoContext(ctx, "Entry no longer exists, skipping audit",
			"entry_id", msg.EntryID,
			"type", msg.Type)
		return nil
	}

	if msg.DurationMinutes != entry.DurationMinutes {
		slog.DebugContext(ctx, "Entry changed since event was raised",
			"entry_id", entry.ID,
			"event_duration", msg.DurationMinutes,
			"stored_duration", entry.DurationMinutes)
	}
	return w.audit(ctx, *entry)
}

func (w *AuditWorker) audit(ctx context.Context, e core.JournalEntry) error {
	expected := core.ComputeDuration(e.StartTime, e.EndTime)

	if expected == 0 {
		w.zeroLength.Add(1)
		slog.WarnContext(ctx, "Entry has zero duration, times may be unparseable",
			"entry_id", e.ID,
			"teacher_id", e.TeacherID,
			"start_time", e.StartTime,
			"end_time", e.EndTime)
	}

	if expected == e.DurationMinutes {
		return nil
	}

	w.mismatched.Add(1)
	slog.WarnContext(ctx, "Stored duration does not match entry times",
		"entry_id", e.ID,
		"teacher_id", e.TeacherID,
		"stored", e.DurationMinutes,
		"expected", expected)

	if !w.repair {
		return nil
	}
	if err := w.store.SaveEntry(ctx, &e); err != nil {
		return fmt.Errorf("repair entry %d: %w", e.ID, err)
	}
	w.repaired.Add(1)
	slog.InfoContext(ctx, "Repaired entry duration",
		"entry_id", e.ID,
		"duration_minutes", e.DurationMinutes)
	return nil
}

// StartupAuditCheck scans every teacher's entries once. It covers events
// that were lost while the worker was down.
func (w *AuditWorker) StartupAuditCheck(ctx context.Context) error {
	teachers, err := w.store.ListTeachers(ctx)
	if err != nil {
		return fmt.Errorf("list teachers for startup audit: %w", err)
	}

	scanned, failed := 0, 0
	for _, t := range teachers {
		entries, err := w.store.ListEntriesForTeacher(ctx, t.ID, repository.EntryFilter{})
		if err != nil {
			return fmt.Errorf("list entries for %s: %w", t.Code, err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			scanned++
			if err := w.audit(ctx, e); err != nil {
				slog.ErrorContext(ctx, "Failed to audit entry", "entry_id", e.ID, "error", err)
				failed++
			}
		}
	}

	slog.InfoContext(ctx, "Startup audit completed",
		"teachers", len(teachers),
		"entries", scanned,
		"errors", failed)
	return nil
}

// Stats returns a snapshot of the counters.
func (w *AuditWorker) Stats() AuditStats {
	return AuditStats{
		Processed:  w.processed.Load(),
		Mismatched: w.mismatched.Load(),
		ZeroLength: w.zeroLength.Load(),
		Repaired:   w.repaired.Load(),
		Missing:    w.missing.Load(),
	}
}
