package entities

import (
	"time"

	"dermaclinic/internal/schedule"
)

type ScheduleWindow struct {
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// WeeklySchedule is the wire form of a doctor's recurring availability,
// keyed by weekday name ("monday" .. "sunday"). Unknown day names are
// rejected during conversion rather than silently dropped.
type WeeklySchedule map[string][]ScheduleWindow

// ToAvailability converts the wire form into the core model, rejecting
// malformed day names and inverted windows at the boundary.
func (ws WeeklySchedule) ToAvailability() (schedule.WeeklyAvailability, error) {
	var a schedule.WeeklyAvailability
	for name, windows := range ws {
		day, err := schedule.ParseWeekday(name)
		if err != nil {
			return a, err
		}
		for _, w := range windows {
			tw, err := schedule.NewWindow(day, w.StartTime, w.EndTime, w.Available)
			if err != nil {
				return a, err
			}
			a[day] = append(a[day], tw)
		}
	}
	return a, nil
}

// FromAvailability renders the core model back into the wire form. Every
// weekday is present in the output, empty days included, so clients never
// have to guess at missing keys.
func FromAvailability(a schedule.WeeklyAvailability) WeeklySchedule {
	ws := make(WeeklySchedule, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		windows := make([]ScheduleWindow, 0, len(a[d]))
		for _, w := range a[d] {
			windows = append(windows, ScheduleWindow{
				StartTime: schedule.FormatMinutes(w.Start),
				EndTime:   schedule.FormatMinutes(w.End),
				Available: w.Available,
			})
		}
		ws[weekdayKey(d)] = windows
	}
	return ws
}

func weekdayKey(d time.Weekday) string {
	return []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}[d]
}
