package core

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date. The time component is always UTC midnight.
	Date struct {
		time.Time
	}

	Teacher struct {
		ID    int64  `json:"id"`
		Code  string `json:"teacher_id"` // staff identifier, e.g. T001
		Name  string `json:"name"`
		Email string `json:"email"`
		// IsAdmin is carried by the data model but grants no extra access.
		IsAdmin   bool      `json:"is_admin"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	JournalEntry struct {
		ID              int64     `json:"id"`
		TeacherID       int64     `json:"teacher_id"`
		EntryDate       Date      `json:"entry_date"`
		ClassName       string    `json:"class_name"`
		Subject         string    `json:"subject"`
		StartTime       string    `json:"start_time"`
		EndTime         string    `json:"end_time"`
		DurationMinutes int       `json:"duration_minutes"`
		CreatedAt       time.Time `json:"created_at"`
		UpdatedAt       time.Time `json:"updated_at"`
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Before and After compare calendar days only.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool  { return d.Time.Equal(o.Time) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CalculateDuration derives DurationMinutes from the start and end times.
// Stores call it on every save.
func (e *JournalEntry) CalculateDuration() {
	e.DurationMinutes = ComputeDuration(e.StartTime, e.EndTime)
}

// FormattedDuration renders DurationMinutes as "1h 30m" or "45m".
func (e JournalEntry) FormattedDuration() string {
	return FormatDuration(e.DurationMinutes)
}

// OwnedBy reports whether the entry belongs to the given teacher.
func (e JournalEntry) OwnedBy(t Teacher) bool {
	return e.TeacherID == t.ID
}

// MarshalJSON adds the derived formatted_duration field.
func (e JournalEntry) MarshalJSON() ([]byte, error) {
	type plain JournalEntry
	return json.Marshal(struct {
		plain
		FormattedDuration string `json:"formatted_duration"`
	}{
		plain:             plain(e),
		FormattedDuration: e.FormattedDuration(),
	})
}

// Apply copies the editable fields of a validated input onto the entry.
// The duration is not touched here; it is derived when the entry is saved.
func (e *JournalEntry) Apply(in EntryInput) error {
	date, err := ParseDate(in.EntryDate)
	if err != nil {
		return err
	}
	e.EntryDate = date
	e.ClassName = in.ClassName
	e.Subject = in.Subject
	e.StartTime = in.StartTime
	e.EndTime = in.EndTime
	return nil
}
