package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ExpiredReservationIDs returns ids of reserved or paid reservations whose
// exit time has passed.
func (r *JobRepository) ExpiredReservationIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT id FROM reservations WHERE status IN ('reserved', 'paid') AND exit_time < NOW()`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying expired reservations: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expired reservations: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateReservationStatuses(ctx context.Context, ids []int64, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE reservations SET status = $1 WHERE id = ANY($2)`
	result, err := r.DB.ExecContext(ctx, query, newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("updating reservation statuses: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading update result: %w", err)
	}
	return affected, nil
}
