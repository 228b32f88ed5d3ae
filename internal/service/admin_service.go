package service

import (
	"errors"
	"fmt"

	"dermaclinic/internal/entities"
	apperrors "dermaclinic/internal/errors"
	"dermaclinic/internal/repository"
	"dermaclinic/internal/schedule"
)

type AdminService struct {
	AppointmentRepo    *repository.AppointmentRepository
	appointmentService *AppointmentService
}

func NewAdminService(appointmentRepo *repository.AppointmentRepository, appointmentService *AppointmentService) *AdminService {
	return &AdminService{
		AppointmentRepo:    appointmentRepo,
		appointmentService: appointmentService,
	}
}

func (s *AdminService) ListAppointments(doctorID int, date, status string) ([]entities.AppointmentResponse, error) {
	rows, err := s.AppointmentRepo.List(doctorID, date, status)
	if err != nil {
		return nil, err
	}
	out := make([]entities.AppointmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *s.appointmentService.toResponse(&rows[i]))
	}
	return out, nil
}

// UpdateStatus moves an appointment through its lifecycle: the clinic
// confirms, rejects or completes it. Confirming a slot that a concurrent
// booking already won reports as slot taken, same as the booking pre-check.
func (s *AdminService) UpdateStatus(id int, status string) error {
	st := schedule.Status(status)
	if !st.Valid() || st == schedule.StatusPending {
		return apperrors.ErrBadRequest(fmt.Sprintf("invalid target status %q", status))
	}
	if err := s.AppointmentRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return schedule.ErrSlotTaken
		}
		return err
	}
	return nil
}

func (s *AdminService) DeleteAppointment(id int) error {
	return s.AppointmentRepo.Delete(id)
}
