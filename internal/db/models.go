package db

import "time"

type Doctor struct {
	ID        int
	Name      string
	Specialty string
	CreatedAt time.Time
}

type Appointment struct {
	ID              int
	Code            string
	DoctorID        int
	PatientName     string
	PatientEmail    string
	PatientPhone    string
	Date            time.Time
	StartMinutes    int
	DurationMinutes int
	Reason          string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScheduleWindow is one row of a doctor's weekly availability. A doctor's
// full row set is replaced wholesale whenever a new schedule is submitted.
type ScheduleWindow struct {
	ID           int
	DoctorID     int
	Weekday      int // 0 = Sunday .. 6 = Saturday
	StartMinutes int
	EndMinutes   int
	IsAvailable  bool
}
