package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidAvailability is returned when the generator is handed a schedule
// that fails Validate. Generating slots from overlapping windows could
// double-book a doctor, so the generator refuses rather than guessing.
var ErrInvalidAvailability = errors.New("invalid availability")

// Slot is one bookable candidate on a concrete date. Slots are derived on
// demand and never persisted.
type Slot struct {
	Date  time.Time `json:"date"`
	Start int       `json:"start_minutes"`
	End   int       `json:"end_minutes"`
	Label string    `json:"label"`
}

// GenerateSlots enumerates the bookable slots for one doctor on one calendar
// date. Candidate starts step through each available window by granularity
// minutes; a candidate survives only if the full appointment duration fits
// inside the window, no pending or confirmed appointment already starts at
// that time, and the slot is not already in the past relative to now.
//
// Output is ordered ascending by start time and is deterministic for
// identical inputs.
func GenerateSlots(a WeeklyAvailability, date time.Time, existing []Appointment, granularity, duration int, now time.Time) ([]Slot, error) {
	if granularity <= 0 || duration <= 0 {
		return nil, fmt.Errorf("granularity and duration must be positive, got %d and %d", granularity, duration)
	}
	if err := Validate(a); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAvailability, err)
	}

	blocked := make(map[int]bool)
	for _, appt := range existing {
		if appt.Status.Blocks() && sameDate(appt.Date, date) {
			blocked[appt.Start] = true
		}
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	slots := []Slot{}
	for _, w := range sortedCopy(a[date.Weekday()]) {
		if !w.Available {
			continue
		}
		for start := w.Start; start+duration <= w.End; start += granularity {
			if blocked[start] {
				continue
			}
			if At(day, start).Before(now) {
				continue
			}
			slots = append(slots, Slot{
				Date:  day,
				Start: start,
				End:   start + duration,
				Label: FormatMinutes(start) + " - " + FormatMinutes(start+duration),
			})
		}
	}
	return slots, nil
}
