package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"dermaclinic/internal/db"
	"dermaclinic/internal/entities"
	apperrors "dermaclinic/internal/errors"
	"dermaclinic/internal/repository"
	"dermaclinic/internal/schedule"

	"github.com/google/uuid"
)

// AppointmentService glues the pure scheduling rules to the store. The clock
// is injected so every decision is reproducible in tests; the store's unique
// index remains the final arbiter for concurrent bookings of one slot.
type AppointmentService struct {
	Repo         *repository.AppointmentRepository
	ScheduleRepo *repository.ScheduleRepository
	DoctorRepo   *repository.DoctorRepository

	Granularity int           // slot step, minutes
	Duration    int           // appointment length, minutes
	Lockout     time.Duration // minimum lead time before reschedule/cancel
	Location    *time.Location
	Now         func() time.Time
}

func NewAppointmentService(
	repo *repository.AppointmentRepository,
	scheduleRepo *repository.ScheduleRepository,
	doctorRepo *repository.DoctorRepository,
	granularity, duration int,
	lockout time.Duration,
	loc *time.Location,
	now func() time.Time,
) *AppointmentService {
	return &AppointmentService{
		Repo:         repo,
		ScheduleRepo: scheduleRepo,
		DoctorRepo:   doctorRepo,
		Granularity:  granularity,
		Duration:     duration,
		Lockout:      lockout,
		Location:     loc,
		Now:          now,
	}
}

// SlotsForDate computes the bookable slots for one doctor on one date.
func (s *AppointmentService) SlotsForDate(doctorID int, dateStr string) ([]schedule.Slot, error) {
	date, err := s.parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if _, err := s.DoctorRepo.GetByID(doctorID); err != nil {
		return nil, err
	}
	avail, err := s.availabilityFor(doctorID)
	if err != nil {
		return nil, err
	}
	existing, err := s.appointmentsFor(doctorID, date)
	if err != nil {
		return nil, err
	}
	return schedule.GenerateSlots(avail, date, existing, s.Granularity, s.Duration, s.Now())
}

// Book validates a booking request against the doctor's offered slots and,
// if admissible, persists a pending appointment. A lost race against a
// concurrent booking surfaces as the same slot-taken rejection the pre-check
// would have produced.
func (s *AppointmentService) Book(req *entities.AppointmentRequest) (*entities.AppointmentResponse, error) {
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	start, err := schedule.ParseMinutes(req.StartTime)
	if err != nil {
		return nil, apperrors.ErrBadRequest(err.Error())
	}
	doctor, err := s.DoctorRepo.GetByID(req.DoctorID)
	if err != nil {
		return nil, err
	}
	avail, err := s.availabilityFor(req.DoctorID)
	if err != nil {
		return nil, err
	}
	existing, err := s.appointmentsFor(req.DoctorID, date)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	slots, err := schedule.GenerateSlots(avail, date, existing, s.Granularity, s.Duration, now)
	if err != nil {
		return nil, err
	}
	if err := schedule.ValidateBooking(date, start, existing, slots, now); err != nil {
		return nil, err
	}

	appt := &db.Appointment{
		Code:            uuid.NewString(),
		DoctorID:        req.DoctorID,
		PatientName:     req.PatientName,
		PatientEmail:    req.PatientEmail,
		PatientPhone:    req.PatientPhone,
		Date:            date,
		StartMinutes:    start,
		DurationMinutes: s.Duration,
		Reason:          req.Reason,
		Status:          string(schedule.StatusPending),
	}
	if err := s.Repo.Create(appt); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, schedule.ErrSlotTaken
		}
		log.Printf("Error creating appointment: %v", err)
		return nil, err
	}
	resp := s.toResponse(appt)
	resp.DoctorName = doctor.Name
	return resp, nil
}

// Reschedule moves an existing appointment to a new slot, subject to the
// lockout policy and the same slot checks as a fresh booking.
func (s *AppointmentService) Reschedule(code string, req *entities.RescheduleRequest) (*entities.AppointmentResponse, error) {
	current, err := s.Repo.GetByCode(code, req.Email)
	if err != nil {
		return nil, err
	}
	newDate, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	newStart, err := schedule.ParseMinutes(req.StartTime)
	if err != nil {
		return nil, apperrors.ErrBadRequest(err.Error())
	}
	avail, err := s.availabilityFor(current.DoctorID)
	if err != nil {
		return nil, err
	}
	existing, err := s.appointmentsFor(current.DoctorID, newDate)
	if err != nil {
		return nil, err
	}

	// The appointment's own slot must not block its own move, so it is
	// dropped before slot generation as well as inside the validator.
	others := make([]schedule.Appointment, 0, len(existing))
	for _, a := range existing {
		if a.ID != current.ID {
			others = append(others, a)
		}
	}

	now := s.Now()
	slots, err := schedule.GenerateSlots(avail, newDate, others, s.Granularity, s.Duration, now)
	if err != nil {
		return nil, err
	}
	err = schedule.ValidateReschedule(s.toCore(current), newDate, newStart, existing, slots, now, s.Lockout)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.Reschedule(current.ID, newDate, newStart); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, schedule.ErrSlotTaken
		}
		log.Printf("Error rescheduling appointment %s: %v", code, err)
		return nil, err
	}

	current.Date = newDate
	current.StartMinutes = newStart
	current.Status = string(schedule.StatusPending)
	return s.toResponse(current), nil
}

// Cancel cancels an appointment, subject to the same lead-time lockout that
// guards rescheduling.
func (s *AppointmentService) Cancel(code, email string) error {
	appt, err := s.Repo.GetByCode(code, email)
	if err != nil {
		return err
	}
	startAt := schedule.At(s.dateIn(appt.Date), appt.StartMinutes)
	if startAt.Sub(s.Now()) < s.Lockout {
		return schedule.ErrLockoutWindowActive
	}
	return s.Repo.Cancel(code)
}

func (s *AppointmentService) GetByCode(code, email string) (*entities.AppointmentResponse, error) {
	appt, err := s.Repo.GetByCode(code, email)
	if err != nil {
		return nil, err
	}
	return s.toResponse(appt), nil
}

func (s *AppointmentService) parseDate(dateStr string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, s.Location)
	if err != nil {
		return time.Time{}, apperrors.ErrBadRequest(fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", dateStr))
	}
	return date, nil
}

// dateIn re-anchors a date scanned from the store into the clinic's location.
func (s *AppointmentService) dateIn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.Location)
}

func (s *AppointmentService) availabilityFor(doctorID int) (schedule.WeeklyAvailability, error) {
	windows, err := s.ScheduleRepo.GetByDoctor(doctorID)
	if err != nil {
		return schedule.WeeklyAvailability{}, err
	}
	var avail schedule.WeeklyAvailability
	for _, w := range windows {
		avail[w.Weekday] = append(avail[w.Weekday], schedule.TimeWindow{
			Start:     w.StartMinutes,
			End:       w.EndMinutes,
			Available: w.IsAvailable,
		})
	}
	return avail, nil
}

func (s *AppointmentService) appointmentsFor(doctorID int, date time.Time) ([]schedule.Appointment, error) {
	rows, err := s.Repo.ListForDoctorDate(doctorID, date)
	if err != nil {
		return nil, err
	}
	appts := make([]schedule.Appointment, 0, len(rows))
	for i := range rows {
		appts = append(appts, s.toCore(&rows[i]))
	}
	return appts, nil
}

func (s *AppointmentService) toCore(a *db.Appointment) schedule.Appointment {
	return schedule.Appointment{
		ID:       a.ID,
		DoctorID: a.DoctorID,
		Date:     s.dateIn(a.Date),
		Start:    a.StartMinutes,
		Duration: a.DurationMinutes,
		Status:   schedule.Status(a.Status),
	}
}

func (s *AppointmentService) toResponse(a *db.Appointment) *entities.AppointmentResponse {
	return &entities.AppointmentResponse{
		Code:         a.Code,
		DoctorID:     a.DoctorID,
		PatientName:  a.PatientName,
		PatientEmail: a.PatientEmail,
		PatientPhone: a.PatientPhone,
		Date:         a.Date.Format("2006-01-02"),
		StartTime:    schedule.FormatMinutes(a.StartMinutes),
		EndTime:      schedule.FormatMinutes(a.StartMinutes + a.DurationMinutes),
		Reason:       a.Reason,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
