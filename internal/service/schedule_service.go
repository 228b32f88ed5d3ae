package service

import (
	"errors"

	"dermaclinic/internal/db"
	"dermaclinic/internal/entities"
	apperrors "dermaclinic/internal/errors"
	"dermaclinic/internal/repository"
	"dermaclinic/internal/schedule"
)

// ScheduleService manages doctors and their weekly availability. A submitted
// schedule is validated, normalized and then stored wholesale, replacing
// whatever was there before.
type ScheduleService struct {
	ScheduleRepo *repository.ScheduleRepository
	DoctorRepo   *repository.DoctorRepository
}

func NewScheduleService(scheduleRepo *repository.ScheduleRepository, doctorRepo *repository.DoctorRepository) *ScheduleService {
	return &ScheduleService{ScheduleRepo: scheduleRepo, DoctorRepo: doctorRepo}
}

func (s *ScheduleService) Get(doctorID int) (entities.WeeklySchedule, error) {
	if _, err := s.DoctorRepo.GetByID(doctorID); err != nil {
		return nil, err
	}
	windows, err := s.ScheduleRepo.GetByDoctor(doctorID)
	if err != nil {
		return nil, err
	}
	var avail schedule.WeeklyAvailability
	for _, w := range windows {
		avail[w.Weekday] = append(avail[w.Weekday], schedule.TimeWindow{
			Start:     w.StartMinutes,
			End:       w.EndMinutes,
			Available: w.IsAvailable,
		})
	}
	return entities.FromAvailability(avail), nil
}

// Replace validates the submitted schedule and swaps it in for the doctor.
// Authoring errors (inverted or overlapping windows) come back verbatim for
// the doctor to correct; nothing is auto-fixed.
func (s *ScheduleService) Replace(doctorID int, ws entities.WeeklySchedule) error {
	if _, err := s.DoctorRepo.GetByID(doctorID); err != nil {
		return err
	}
	avail, err := ws.ToAvailability()
	if err != nil {
		var inverted *schedule.InvertedWindowError
		if errors.As(err, &inverted) {
			return err
		}
		return apperrors.ErrBadRequest(err.Error())
	}
	if err := schedule.Validate(avail); err != nil {
		return err
	}
	avail = schedule.Normalize(avail)

	var rows []db.ScheduleWindow
	for day, windows := range avail {
		for _, w := range windows {
			rows = append(rows, db.ScheduleWindow{
				DoctorID:     doctorID,
				Weekday:      day,
				StartMinutes: w.Start,
				EndMinutes:   w.End,
				IsAvailable:  w.Available,
			})
		}
	}
	return s.ScheduleRepo.Replace(doctorID, rows)
}

func (s *ScheduleService) ListDoctors() ([]entities.DoctorResponse, error) {
	doctors, err := s.DoctorRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]entities.DoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, entities.DoctorResponse{ID: d.ID, Name: d.Name, Specialty: d.Specialty})
	}
	return out, nil
}
