package service

import (
	"context"
	"fmt"
	"log"

	"vpark/internal/db"
	"vpark/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteExpiredReservations moves reserved and paid reservations whose
// exit time has passed to 'completed'. Runs from the cron scheduler when
// the completion job is enabled.
func (s *JobService) CompleteExpiredReservations(ctx context.Context) error {
	ids, err := s.Repo.ExpiredReservationIDs(ctx)
	if err != nil {
		return fmt.Errorf("completion job: listing expired reservations: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	updated, err := s.Repo.UpdateReservationStatuses(ctx, ids, db.StatusCompleted)
	if err != nil {
		return fmt.Errorf("completion job: updating statuses: %w", err)
	}
	log.Printf("Completion job: marked %d reservations as completed", updated)
	return nil
}
