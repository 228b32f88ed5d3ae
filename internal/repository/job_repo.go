package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedIDsPastEnd returns confirmed appointments whose end time is
// already behind now, so the job can mark them completed.
func (r *JobRepository) GetConfirmedIDsPastEnd(now time.Time) ([]int, error) {
	query := `
		SELECT id FROM appointments
		WHERE status = 'confirmed'
		AND date + (start_minutes + duration_minutes) * interval '1 minute' < $1`
	rows, err := r.DB.Query(query, now)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed appointments past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning appointment ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.DB.Exec(
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("error updating appointment statuses: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d appointments to '%s'", affected, newStatus)
	}
	return nil
}

// DeletePendingOlderThan removes pending appointments that were never
// confirmed and whose creation time is before the cutoff.
func (r *JobRepository) DeletePendingOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM appointments WHERE status = 'pending' AND created_at < $1`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending appointments: %w", err)
	}
	return result.RowsAffected()
}
