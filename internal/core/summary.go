package core

import "time"

// TotalMinutes sums DurationMinutes over entries.
func TotalMinutes(entries []JournalEntry) int {
	total := 0
	for _, e := range entries {
		total += e.DurationMinutes
	}
	return total
}

// SelectOn returns the entries dated on day.
func SelectOn(entries []JournalEntry, day Date) []JournalEntry {
	var out []JournalEntry
	for _, e := range entries {
		if e.EntryDate.Equal(day) {
			out = append(out, e)
		}
	}
	return out
}

// SelectBetween returns the entries dated within [from, to], both bounds
// included.
func SelectBetween(entries []JournalEntry, from, to Date) []JournalEntry {
	var out []JournalEntry
	for _, e := range entries {
		if InRange(e.EntryDate, from, to) {
			out = append(out, e)
		}
	}
	return out
}

// InRange reports whether d falls within [from, to]. A zero bound is open.
func InRange(d, from, to Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// MinutesOn is the teaching time recorded for a single calendar date.
func MinutesOn(entries []JournalEntry, day Date) int {
	return TotalMinutes(SelectOn(entries, day))
}

// MinutesBetween is the teaching time recorded within an inclusive date range.
func MinutesBetween(entries []JournalEntry, from, to Date) int {
	return TotalMinutes(SelectBetween(entries, from, to))
}

// WeekRange returns the Monday and Sunday of the week containing now, in
// now's location.
func WeekRange(now time.Time) (start, end Date) {
	today := DateOf(now)
	offset := (int(now.Weekday()) + 6) % 7 // days since Monday
	start = Date{Time: today.AddDate(0, 0, -offset)}
	end = Date{Time: start.AddDate(0, 0, 6)}
	return start, end
}

// Today returns the calendar date of now in now's location.
func Today(now time.Time) Date {
	return DateOf(now)
}
