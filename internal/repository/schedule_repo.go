package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"dermaclinic/internal/db"
)

type ScheduleRepository struct {
	DB *sql.DB
}

func NewScheduleRepository(database *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: database}
}

func (r *ScheduleRepository) GetByDoctor(doctorID int) ([]db.ScheduleWindow, error) {
	query := `
		SELECT id, doctor_id, weekday, start_minutes, end_minutes, is_available
		FROM schedule_windows
		WHERE doctor_id = $1
		ORDER BY weekday, start_minutes`
	rows, err := r.DB.Query(query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("error querying schedule for doctor %d: %w", doctorID, err)
	}
	defer rows.Close()

	var windows []db.ScheduleWindow
	for rows.Next() {
		var w db.ScheduleWindow
		if err := rows.Scan(&w.ID, &w.DoctorID, &w.Weekday, &w.StartMinutes, &w.EndMinutes, &w.IsAvailable); err != nil {
			return nil, fmt.Errorf("error scanning schedule window: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

// Replace swaps a doctor's entire weekly schedule in one transaction, per the
// submit-wholesale lifecycle. No history is kept.
func (r *ScheduleRepository) Replace(doctorID int, windows []db.ScheduleWindow) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting schedule transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schedule_windows WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("error clearing schedule for doctor %d: %w", doctorID, err)
	}
	for _, w := range windows {
		_, err := tx.Exec(`
			INSERT INTO schedule_windows (doctor_id, weekday, start_minutes, end_minutes, is_available)
			VALUES ($1, $2, $3, $4, $5)`,
			doctorID, w.Weekday, w.StartMinutes, w.EndMinutes, w.IsAvailable,
		)
		if err != nil {
			return fmt.Errorf("error inserting schedule window: %w", err)
		}
	}
	return tx.Commit()
}

type DoctorRepository struct {
	DB *sql.DB
}

func NewDoctorRepository(database *sql.DB) *DoctorRepository {
	return &DoctorRepository{DB: database}
}

func (r *DoctorRepository) GetByID(id int) (*db.Doctor, error) {
	var d db.Doctor
	err := r.DB.QueryRow(
		`SELECT id, name, specialty, created_at FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("doctor %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("error querying doctor: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) List() ([]db.Doctor, error) {
	rows, err := r.DB.Query(`SELECT id, name, specialty, created_at FROM doctors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error listing doctors: %w", err)
	}
	defer rows.Close()

	var doctors []db.Doctor
	for rows.Next() {
		var d db.Doctor
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning doctor: %w", err)
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}
