package repository

import (
	"context"
	"testing"
	"time"

	"teachjournal/internal/core"
)

type countingFinder struct {
	calls    int
	teachers map[string]core.Teacher
}

func (f *countingFinder) FindTeacherByEmail(_ context.Context, email string) (*core.Teacher, error) {
	f.calls++
	t, ok := f.teachers[email]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func TestCachedTeachersHit(t *testing.T) {
	inner := &countingFinder{teachers: map[string]core.Teacher{
		"a@school.edu": {ID: 1, Email: "a@school.edu"},
	}}
	c := NewCachedTeachers(inner, 10, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := c.FindTeacherByEmail(context.Background(), "a@school.edu")
		if err != nil || got == nil || got.ID != 1 {
			t.Fatalf("lookup %d = %v, %v", i, got, err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestCachedTeachersDoesNotCacheMisses(t *testing.T) {
	inner := &countingFinder{teachers: map[string]core.Teacher{}}
	c := NewCachedTeachers(inner, 10, time.Minute)

	if got, _ := c.FindTeacherByEmail(context.Background(), "new@school.edu"); got != nil {
		t.Fatal("expected miss")
	}
	inner.teachers["new@school.edu"] = core.Teacher{ID: 7, Email: "new@school.edu"}

	got, _ := c.FindTeacherByEmail(context.Background(), "new@school.edu")
	if got == nil || got.ID != 7 {
		t.Errorf("after provisioning got %v, want teacher 7", got)
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		page, per      int
		limit, offset int
	}{
		{1, 10, 10, 0},
		{3, 10, 10, 20},
		{0, 10, 10, 0},
		{-2, 0, DefaultPageSize, 0},
	}
	for _, tt := range tests {
		f := Page(tt.page, tt.per)
		if f.Limit != tt.limit || f.Offset != tt.offset {
			t.Errorf("Page(%d,%d) = %+v", tt.page, tt.per, f)
		}
	}
}
