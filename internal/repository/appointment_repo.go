package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dermaclinic/internal/db"

	"github.com/lib/pq"
)

// ErrDuplicateSlot is returned when an insert or reschedule loses the race
// for a slot to a concurrent request. The partial unique index on
// (doctor_id, date, start_minutes) adjudicates the winner.
var ErrDuplicateSlot = errors.New("slot already booked")

const uniqueViolation = "23505"

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

const appointmentColumns = `id, code, doctor_id, patient_name, patient_email, patient_phone,
		date, start_minutes, duration_minutes, reason, status, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (*db.Appointment, error) {
	var a db.Appointment
	err := row.Scan(
		&a.ID, &a.Code, &a.DoctorID, &a.PatientName, &a.PatientEmail, &a.PatientPhone,
		&a.Date, &a.StartMinutes, &a.DurationMinutes, &a.Reason, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListForDoctorDate returns every appointment for one doctor on one calendar
// date, regardless of status. The scheduling core decides which of them
// still block their slot.
func (r *AppointmentRepository) ListForDoctorDate(doctorID int, date time.Time) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY start_minutes`
	rows, err := r.DB.Query(query, doctorID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for doctor %d: %w", doctorID, err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointment rows: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) Create(a *db.Appointment) error {
	query := `
		INSERT INTO appointments
		(code, doctor_id, patient_name, patient_email, patient_phone, date, start_minutes, duration_minutes, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query,
		a.Code,
		a.DoctorID,
		a.PatientName,
		a.PatientEmail,
		a.PatientPhone,
		a.Date.Format("2006-01-02"),
		a.StartMinutes,
		a.DurationMinutes,
		a.Reason,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlot
	}
	return err
}

func (r *AppointmentRepository) GetByCode(code, email string) (*db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments WHERE code = $1 AND patient_email = $2`
	a, err := scanAppointment(r.DB.QueryRow(query, code, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment with code '%s' not found: %w", code, err)
		}
		return nil, fmt.Errorf("error querying appointment: %w", err)
	}
	return a, nil
}

func (r *AppointmentRepository) GetByID(id int) (*db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("appointment %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying appointment: %w", err)
	}
	return a, nil
}

// Reschedule moves an appointment to a new date and start time and resets
// its status to pending for re-confirmation.
func (r *AppointmentRepository) Reschedule(id int, date time.Time, startMinutes int) error {
	query := `UPDATE appointments
		SET date = $1, start_minutes = $2, status = 'pending', updated_at = NOW()
		WHERE id = $3`
	_, err := r.DB.Exec(query, date.Format("2006-01-02"), startMinutes, id)
	if isUniqueViolation(err) {
		return ErrDuplicateSlot
	}
	return err
}

func (r *AppointmentRepository) UpdateStatus(id int, status string) error {
	result, err := r.DB.Exec(
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlot
	}
	if err != nil {
		return fmt.Errorf("error updating appointment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("appointment %d not found", id)
	}
	return nil
}

func (r *AppointmentRepository) Cancel(code string) error {
	query := `UPDATE appointments SET status = 'canceled', updated_at = NOW() WHERE code = $1 RETURNING id`
	var id int
	if err := r.DB.QueryRow(query, code).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("appointment with code '%s' not found: %w", code, err)
		}
		return fmt.Errorf("error canceling appointment: %w", err)
	}
	return nil
}

// List returns appointments filtered by any combination of doctor, date and
// status, newest date first. Used by the admin dashboard.
func (r *AppointmentRepository) List(doctorID int, date, status string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if doctorID != 0 {
		query += " AND doctor_id = $" + strconv.Itoa(idx)
		args = append(args, doctorID)
		idx++
	}
	if date != "" {
		query += " AND date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY date DESC, start_minutes"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
