package memory

import (
	"context"
	"errors"
	"testing"

	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

func seedTeacher(t *testing.T, s *Store, code, email string) core.Teacher {
	t.Helper()
	teacher := core.Teacher{Code: code, Name: code, Email: email}
	if err := s.CreateTeacher(context.Background(), &teacher); err != nil {
		t.Fatalf("CreateTeacher: %v", err)
	}
	return teacher
}

func TestCreateTeacherUniqueness(t *testing.T) {
	s := NewStore()
	seedTeacher(t, s, "T001", "a@school.edu")

	dup := core.Teacher{Code: "T002", Email: "a@school.edu"}
	if err := s.CreateTeacher(context.Background(), &dup); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
	dup = core.Teacher{Code: "T001", Email: "b@school.edu"}
	if err := s.CreateTeacher(context.Background(), &dup); err == nil {
		t.Fatal("expected duplicate code to be rejected")
	}
}

func TestFindTeacherByEmail(t *testing.T) {
	s := NewStore()
	want := seedTeacher(t, s, "T001", "sarah@school.edu")

	got, err := s.FindTeacherByEmail(context.Background(), "sarah@school.edu")
	if err != nil || got == nil {
		t.Fatalf("FindTeacherByEmail = %v, %v", got, err)
	}
	if got.ID != want.ID {
		t.Errorf("ID = %d, want %d", got.ID, want.ID)
	}

	for _, email := range []string{"SARAH@school.edu", " sarah@school.edu"} {
		if other, err := s.FindTeacherByEmail(context.Background(), email); err != nil || other != nil {
			t.Errorf("FindTeacherByEmail(%q) = %v, %v; want nil, nil", email, other, err)
		}
	}

	missing, err := s.FindTeacherByEmail(context.Background(), "nobody@school.edu")
	if err != nil || missing != nil {
		t.Errorf("missing teacher = %v, %v; want nil, nil", missing, err)
	}
}

func TestSaveEntryDerivesDuration(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	teacher := seedTeacher(t, s, "T001", "a@school.edu")

	e := &core.JournalEntry{
		TeacherID: teacher.ID,
		EntryDate: core.NewDate(2024, 3, 4),
		ClassName: "7B",
		Subject:   "Math",
		StartTime: "09:00",
		EndTime:   "10:30",
		// stale value supplied by a caller must be replaced
		DurationMinutes: 5,
	}
	if err := s.SaveEntry(ctx, e); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if e.DurationMinutes != 90 {
		t.Errorf("DurationMinutes = %d, want 90", e.DurationMinutes)
	}

	e.EndTime = "11:00"
	if err := s.SaveEntry(ctx, e); err != nil {
		t.Fatalf("SaveEntry update: %v", err)
	}
	stored, _ := s.FindEntryByID(ctx, e.ID)
	if stored.DurationMinutes != 120 {
		t.Errorf("stored DurationMinutes = %d, want 120", stored.DurationMinutes)
	}
}

func TestSaveEntryUnknownID(t *testing.T) {
	s := NewStore()
	e := &core.JournalEntry{ID: 42, StartTime: "09:00", EndTime: "10:00"}
	if err := s.SaveEntry(context.Background(), e); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveEntryKeepsOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedTeacher(t, s, "T001", "a@school.edu")
	b := seedTeacher(t, s, "T002", "b@school.edu")

	e := &core.JournalEntry{TeacherID: a.ID, EntryDate: core.NewDate(2024, 3, 4), StartTime: "09:00", EndTime: "10:00"}
	if err := s.SaveEntry(ctx, e); err != nil {
		t.Fatal(err)
	}

	moved := *e
	moved.TeacherID = b.ID
	moved.EndTime = "11:00"
	if err := s.SaveEntry(ctx, &moved); err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved.TeacherID != a.ID {
		t.Errorf("saved TeacherID = %d, want %d", moved.TeacherID, a.ID)
	}

	got, _ := s.FindEntryByID(ctx, e.ID)
	if got.TeacherID != a.ID || got.DurationMinutes != 120 {
		t.Errorf("stored entry = %+v", got)
	}
	if n, _ := s.CountEntriesForTeacher(ctx, b.ID, repository.EntryFilter{}); n != 0 {
		t.Errorf("entries for other teacher = %d, want 0", n)
	}
}

func TestListEntriesOrderingAndFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := seedTeacher(t, s, "T001", "a@school.edu")
	b := seedTeacher(t, s, "T002", "b@school.edu")

	add := func(teacherID int64, date core.Date, start, end string) {
		e := &core.JournalEntry{TeacherID: teacherID, EntryDate: date, ClassName: "c", Subject: "s", StartTime: start, EndTime: end}
		if err := s.SaveEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	add(a.ID, core.NewDate(2024, 3, 4), "09:00", "10:00")
	add(a.ID, core.NewDate(2024, 3, 5), "08:00", "09:00")
	add(a.ID, core.NewDate(2024, 3, 5), "13:00", "14:00")
	add(b.ID, core.NewDate(2024, 3, 5), "10:00", "11:00")

	got, err := s.ListEntriesForTeacher(ctx, a.ID, repository.EntryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantStarts := []string{"13:00", "08:00", "09:00"}
	for i, w := range wantStarts {
		if got[i].StartTime != w {
			t.Errorf("got[%d].StartTime = %s, want %s", i, got[i].StartTime, w)
		}
	}

	day, _ := s.ListEntriesForTeacher(ctx, a.ID, repository.OnDate(core.NewDate(2024, 3, 4)))
	if len(day) != 1 {
		t.Errorf("OnDate len = %d, want 1", len(day))
	}

	page2, _ := s.ListEntriesForTeacher(ctx, a.ID, repository.Page(2, 2))
	if len(page2) != 1 || page2[0].StartTime != "09:00" {
		t.Errorf("page 2 = %+v", page2)
	}

	n, _ := s.CountEntriesForTeacher(ctx, a.ID, repository.Page(2, 2))
	if n != 3 {
		t.Errorf("count = %d, want 3 (paging ignored)", n)
	}
}

func TestDeleteEntry(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	e := &core.JournalEntry{TeacherID: 1, EntryDate: core.NewDate(2024, 1, 1), StartTime: "09:00", EndTime: "10:00"}
	_ = s.SaveEntry(ctx, e)

	if err := s.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if got, _ := s.FindEntryByID(ctx, e.ID); got != nil {
		t.Error("entry still present after delete")
	}
	if err := s.DeleteEntry(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
