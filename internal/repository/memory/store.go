// Package memory is an in-process store used for development and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

var errDuplicate = errors.New("memory: teacher code or email already exists")

// Store keeps teachers and entries in maps guarded by a single RWMutex.
type Store struct {
	mu       sync.RWMutex
	teachers map[int64]core.Teacher
	entries  map[int64]core.JournalEntry
	nextTID  int64
	nextEID  int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		teachers: make(map[int64]core.Teacher),
		entries:  make(map[int64]core.JournalEntry),
		nextTID:  1,
		nextEID:  1,
		now:      time.Now,
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) FindTeacherByEmail(_ context.Context, email string) (*core.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teachers {
		if t.Email == email {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateTeacher(_ context.Context, t *core.Teacher) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.teachers {
		if existing.Code == t.Code || existing.Email == t.Email {
			return errDuplicate
		}
	}
	now := s.now()
	t.ID = s.nextTID
	s.nextTID++
	t.CreatedAt, t.UpdatedAt = now, now
	s.teachers[t.ID] = *t
	return nil
}

func (s *Store) ListTeachers(context.Context) ([]core.Teacher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindEntryByID(_ context.Context, id int64) (*core.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *Store) ListEntriesForTeacher(_ context.Context, teacherID int64, f repository.EntryFilter) ([]core.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := s.filter(teacherID, f)
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.After(b.EntryDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime > b.StartTime
		}
		return a.ID > b.ID
	})
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return []core.JournalEntry{}, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (s *Store) CountEntriesForTeacher(_ context.Context, teacherID int64, f repository.EntryFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filter(teacherID, f)), nil
}

// filter ignores Limit and Offset. Caller holds the lock.
func (s *Store) filter(teacherID int64, f repository.EntryFilter) []core.JournalEntry {
	out := make([]core.JournalEntry, 0)
	for _, e := range s.entries {
		if e.TeacherID == teacherID && core.InRange(e.EntryDate, f.From, f.To) {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) SaveEntry(_ context.Context, e *core.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.CalculateDuration()
	now := s.now()
	if e.ID == 0 {
		e.ID = s.nextEID
		s.nextEID++
		e.CreatedAt = now
	} else {
		existing, ok := s.entries[e.ID]
		if !ok {
			return core.ErrNotFound
		}
		// ownership never moves
		e.TeacherID = existing.TeacherID
		e.CreatedAt = existing.CreatedAt
	}
	e.UpdatedAt = now
	s.entries[e.ID] = *e
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}
