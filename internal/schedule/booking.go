package schedule

import (
	"time"
)

// Status is an appointment's lifecycle state as the clinic tracks it.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Blocks reports whether an appointment in this status occupies its slot.
// Rejected and canceled appointments free their slot for rebooking.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Appointment is the read-only view of a booked appointment that the
// scheduling rules need. The full patient record lives in the store; this
// package only classifies (date, time) pairs against the existing set.
type Appointment struct {
	ID       int
	DoctorID int
	Date     time.Time
	Start    int // minutes since midnight
	Duration int // minutes
	Status   Status
}

// Rejection is a classified, user-recoverable refusal of a booking or
// reschedule request. Rejections are ordinary error values; callers match
// them with errors.Is against the exported variables below.
type Rejection struct {
	Reason  string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

var (
	ErrSlotNotOffered = &Rejection{
		Reason:  "slot_not_offered",
		Message: "the requested time is not offered on that date",
	}
	ErrSlotTaken = &Rejection{
		Reason:  "slot_taken",
		Message: "the requested time is already booked",
	}
	ErrPastDateTime = &Rejection{
		Reason:  "past_datetime",
		Message: "the requested time is in the past",
	}
	ErrLockoutWindowActive = &Rejection{
		Reason:  "lockout_active",
		Message: "the appointment is too close to its scheduled time to be changed",
	}
)

// ValidateBooking decides whether a new appointment may be created at the
// requested date and start time. slots must be the generator's output for
// the same doctor and date. The past check runs first so a stale request
// reports "in the past" rather than "not offered".
//
// A nil return means the request is admissible; the caller then persists a
// pending appointment. The store's uniqueness guarantee remains the final
// arbiter under concurrent requests.
func ValidateBooking(date time.Time, start int, existing []Appointment, slots []Slot, now time.Time) error {
	if !At(date, start).After(now) {
		return ErrPastDateTime
	}
	for _, appt := range existing {
		if appt.Status.Blocks() && sameDate(appt.Date, date) && appt.Start == start {
			return ErrSlotTaken
		}
	}
	for _, s := range slots {
		if sameDate(s.Date, date) && s.Start == start {
			return nil
		}
	}
	return ErrSlotNotOffered
}

// ValidateReschedule decides whether an existing appointment may be moved to
// a new date and start time. An appointment within lockout of its current
// scheduled time can no longer be moved. The appointment's own slot never
// counts as a conflict, so moving within the same day works.
func ValidateReschedule(appt Appointment, newDate time.Time, newStart int, existing []Appointment, slots []Slot, now time.Time, lockout time.Duration) error {
	if At(appt.Date, appt.Start).Sub(now) < lockout {
		return ErrLockoutWindowActive
	}
	others := make([]Appointment, 0, len(existing))
	for _, a := range existing {
		if a.ID != appt.ID {
			others = append(others, a)
		}
	}
	return ValidateBooking(newDate, newStart, others, slots, now)
}
