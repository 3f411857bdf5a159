package storage

import "time"

type Teacher struct {
	ID        int64
	TeacherID string
	Name      string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type JournalEntry struct {
	ID              int64
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
