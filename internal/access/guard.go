// Package access decides whether an authenticated identity may touch a
// journal entry.
package access

import (
	"context"
	"fmt"

	"teachjournal/internal/auth"
	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

// Guard resolves identities to teachers and enforces entry ownership.
// IsAdmin grants nothing here.
type Guard struct {
	teachers repository.TeacherFinder
}

func NewGuard(teachers repository.TeacherFinder) *Guard {
	return &Guard{teachers: teachers}
}

// ResolveTeacher maps the identity to its teacher profile by exact email.
func (g *Guard) ResolveTeacher(ctx context.Context, id auth.Identity) (core.Teacher, error) {
	if id.Email == "" {
		return core.Teacher{}, core.ErrProfileNotFound
	}
	t, err := g.teachers.FindTeacherByEmail(ctx, id.Email)
	if err != nil {
		return core.Teacher{}, fmt.Errorf("resolve teacher: %w", err)
	}
	if t == nil {
		return core.Teacher{}, core.ErrProfileNotFound
	}
	return *t, nil
}

// AuthorizeEntryAccess returns the owning teacher when the identity owns
// entry. A nil entry yields core.ErrNotFound; another teacher's entry yields
// core.ErrForbidden.
func (g *Guard) AuthorizeEntryAccess(ctx context.Context, id auth.Identity, entry *core.JournalEntry) (core.Teacher, error) {
	t, err := g.ResolveTeacher(ctx, id)
	if err != nil {
		return core.Teacher{}, err
	}
	if entry == nil {
		return core.Teacher{}, core.ErrNotFound
	}
	if !entry.OwnedBy(t) {
		return core.Teacher{}, core.ErrForbidden
	}
	return t, nil
}
