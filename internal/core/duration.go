package core

import (
	"strconv"
	"strings"
	"time"
)

// ClockLayout is the strict time-of-day format accepted from callers.
const ClockLayout = "15:04"

// anchorDate is the fixed calendar date both values are pinned to when the
// strict parse fails.
const anchorDate = "1970-01-01 "

// fallbackLayouts are tried in order against anchorDate+value.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05.000000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04PM",
	"2006-01-02 3:04 pm",
	"2006-01-02 3:04pm",
	"2006-01-02 3PM",
	"2006-01-02 3pm",
}

// ParseClock parses a strict 24-hour HH:MM value and returns minutes since
// midnight.
func ParseClock(s string) (int, bool) {
	if len(s) != len(ClockLayout) {
		return 0, false
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return time.Date(0, 1, 1, 0, minutes, 0, 0, time.UTC).Format(ClockLayout)
}

// ComputeDuration returns the absolute number of minutes between start and
// end. Values that parse neither strictly nor through the fallback layouts
// yield 0.
func ComputeDuration(start, end string) int {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return 0
	}

	s, okStart := ParseClock(start)
	e, okEnd := ParseClock(end)
	if okStart && okEnd {
		return abs(e - s)
	}

	st, okStart := parseAnchored(start)
	et, okEnd := parseAnchored(end)
	if !okStart || !okEnd {
		return 0
	}
	return abs(int(et.Sub(st) / time.Minute))
}

func parseAnchored(v string) (time.Time, bool) {
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, anchorDate+v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDuration renders minutes as "{h}h {m}m", or "{m}m" under an hour.
func FormatDuration(minutes int) string {
	hours := minutes / 60
	rem := minutes % 60
	if hours > 0 {
		return strconv.Itoa(hours) + "h " + strconv.Itoa(rem) + "m"
	}
	return strconv.Itoa(rem) + "m"
}

// HoursRounded converts minutes to hours rounded half-up to one decimal.
// The rounding works on integer tenths so the minute sum stays exact.
func HoursRounded(minutes int) float64 {
	neg := minutes < 0
	if neg {
		minutes = -minutes
	}
	tenths := (minutes*10 + 30) / 60
	h := float64(tenths) / 10
	if neg {
		return -h
	}
	return h
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
