// Package schedule holds the clinic's scheduling rules: a doctor's recurring
// weekly availability, the slots that availability yields on a concrete date,
// and the admissibility checks for booking and rescheduling appointments.
// Everything in this package is pure computation over its inputs; persistence
// and the current time are supplied by the caller.
package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimeWindow is one contiguous stretch of working time within a single day,
// expressed in minutes since midnight, clinic-local. Windows never cross
// midnight; an overnight shift must be declared as two windows, one on each
// day it touches.
type TimeWindow struct {
	Start     int
	End       int
	Available bool
}

// WeeklyAvailability is a doctor's recurring schedule, indexed by
// time.Weekday (0 = Sunday). A day with no windows is a day off.
type WeeklyAvailability [7][]TimeWindow

// InvertedWindowError reports a window whose start is not strictly before
// its end.
type InvertedWindowError struct {
	Day    time.Weekday
	Window TimeWindow
}

func (e *InvertedWindowError) Error() string {
	return fmt.Sprintf("%s: window %s-%s is inverted or empty",
		e.Day, FormatMinutes(e.Window.Start), FormatMinutes(e.Window.End))
}

// OverlappingWindowError reports two windows on the same day that share time.
type OverlappingWindowError struct {
	Day    time.Weekday
	First  TimeWindow
	Second TimeWindow
}

func (e *OverlappingWindowError) Error() string {
	return fmt.Sprintf("%s: window %s-%s overlaps window %s-%s",
		e.Day,
		FormatMinutes(e.First.Start), FormatMinutes(e.First.End),
		FormatMinutes(e.Second.Start), FormatMinutes(e.Second.End))
}

// NewWindow builds a window for the given day from "HH:MM" bounds. Inverted
// and zero-duration windows are rejected here so they can never enter a
// WeeklyAvailability through the API layer.
func NewWindow(day time.Weekday, start, end string, available bool) (TimeWindow, error) {
	s, err := ParseMinutes(start)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%s: %w", day, err)
	}
	e, err := ParseMinutes(end)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("%s: %w", day, err)
	}
	w := TimeWindow{Start: s, End: e, Available: available}
	if s >= e {
		return TimeWindow{}, &InvertedWindowError{Day: day, Window: w}
	}
	return w, nil
}

// Validate checks every day of the schedule: each window must run forward in
// time and no two windows on the same day may overlap. Blocked
// (Available=false) windows still count for overlap purposes, since they
// occupy declared time.
func Validate(a WeeklyAvailability) error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		windows := sortedCopy(a[d])
		for i, w := range windows {
			if w.Start >= w.End {
				return &InvertedWindowError{Day: d, Window: w}
			}
			if i > 0 && windows[i-1].End > w.Start {
				return &OverlappingWindowError{Day: d, First: windows[i-1], Second: w}
			}
		}
	}
	return nil
}

// Normalize returns a canonical copy with each day's windows sorted ascending
// by start time. The input is left untouched. Normalize is idempotent.
func Normalize(a WeeklyAvailability) WeeklyAvailability {
	var out WeeklyAvailability
	for d := range a {
		out[d] = sortedCopy(a[d])
	}
	return out
}

func sortedCopy(windows []TimeWindow) []TimeWindow {
	out := make([]TimeWindow, len(windows))
	copy(out, windows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// ParseMinutes converts an "HH:MM" clock string to minutes since midnight.
func ParseMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes since midnight back as "HH:MM".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves a day name ("Monday", "monday") to its weekday. An
// unknown name is an error, never a silently ignored key.
func ParseWeekday(name string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(name)]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// At resolves a minutes-since-midnight offset on a calendar date to a
// concrete instant in the date's location.
func At(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
