package service

import (
	"fmt"
	"log"
	"time"

	"dermaclinic/internal/repository"
	"dermaclinic/internal/schedule"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedAppointments finds confirmed appointments whose end time
// has passed and marks them completed.
func (s *JobService) CompleteFinishedAppointments(now time.Time) error {
	log.Println("Cron Job: Checking for appointments to mark as 'completed'...")

	ids, err := s.Repo.GetConfirmedIDsPastEnd(now)
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed appointments past end time: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed appointments found past their end time.")
		return nil
	}

	log.Printf("Cron Job: Found %d appointments to mark as 'completed'. IDs: %v", len(ids), ids)

	if err := s.Repo.UpdateStatuses(ids, string(schedule.StatusCompleted)); err != nil {
		return fmt.Errorf("cron job: failed to update appointment statuses: %w", err)
	}
	return nil
}

// DeleteStalePending deletes pending appointments created before the given
// cutoff that were never confirmed by the clinic.
func (s *JobService) DeleteStalePending(before time.Time) (int64, error) {
	return s.Repo.DeletePendingOlderThan(before)
}
