package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vpark/internal/db"

	"github.com/lib/pq"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

// OverlappingSlots returns the slot numbers on a level held by a
// non-cancelled reservation whose window intersects [entry, exit).
// Intervals are half-open: a reservation ending exactly at entry, or
// starting exactly at exit, does not conflict.
func (r *ReservationRepository) OverlappingSlots(ctx context.Context, level int, entry, exit time.Time) (map[int]struct{}, error) {
	query := `
		SELECT slot_no FROM reservations
		WHERE level_no = $1
		  AND status IN ('reserved', 'paid')
		  AND NOT (exit_time <= $2 OR entry_time >= $3)`
	rows, err := r.DB.QueryContext(ctx, query, level, entry, exit)
	if err != nil {
		return nil, fmt.Errorf("querying overlapping slots: %w", err)
	}
	defer rows.Close()

	taken := make(map[int]struct{})
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("scanning slot number: %w", err)
		}
		taken[slot] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overlapping slots: %w", err)
	}
	return taken, nil
}

// isSerializationFailure reports a Postgres serialization_failure (40001).
// When two serializable transactions race for the same slot, the loser is
// aborted with this code rather than failing the conflict count.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "40001"
}

// Create inserts a reservation after re-checking the slot for conflicts
// inside a serializable transaction, so two users racing for the same
// slot cannot both succeed.
func (r *ReservationRepository) Create(ctx context.Context, res *db.Reservation) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("beginning reservation tx: %w", err)
	}
	defer tx.Rollback()

	var conflicts int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE level_no = $1 AND slot_no = $2
		  AND status IN ('reserved', 'paid')
		  AND NOT (exit_time <= $3 OR entry_time >= $4)`,
		res.LevelNo, res.SlotNo, res.EntryTime, res.ExitTime,
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("checking slot conflicts: %w", err)
	}
	if conflicts > 0 {
		return ErrSlotTaken
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations
		(user_id, level_no, slot_no, entry_time, exit_time, vehicle_type, status, bill_amount, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		res.UserID,
		res.LevelNo,
		res.SlotNo,
		res.EntryTime,
		res.ExitTime,
		res.VehicleType,
		res.Status,
		res.BillAmount,
		res.Paid,
		res.CreatedAt,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		if isSerializationFailure(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("inserting reservation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("committing reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	var res db.Reservation
	query := `
		SELECT id, user_id, level_no, slot_no, entry_time, exit_time, vehicle_type, status, bill_amount, paid, paid_at, created_at
		FROM reservations WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.UserID, &res.LevelNo, &res.SlotNo, &res.EntryTime, &res.ExitTime,
		&res.VehicleType, &res.Status, &res.BillAmount, &res.Paid, &res.PaidAt, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("querying reservation: %w", err)
	}
	return &res, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]db.Reservation, error) {
	query := `
		SELECT id, user_id, level_no, slot_no, entry_time, exit_time, vehicle_type, status, bill_amount, paid, paid_at, created_at
		FROM reservations WHERE user_id = $1
		ORDER BY created_at DESC`
	return r.listReservations(ctx, query, userID)
}

// ListPendingByUser returns the user's unpaid reserved rows, newest first.
func (r *ReservationRepository) ListPendingByUser(ctx context.Context, userID string) ([]db.Reservation, error) {
	query := `
		SELECT id, user_id, level_no, slot_no, entry_time, exit_time, vehicle_type, status, bill_amount, paid, paid_at, created_at
		FROM reservations WHERE user_id = $1 AND status = 'reserved' AND paid = FALSE
		ORDER BY created_at DESC`
	return r.listReservations(ctx, query, userID)
}

func (r *ReservationRepository) listReservations(ctx context.Context, query string, args ...interface{}) ([]db.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		err := rows.Scan(
			&res.ID, &res.UserID, &res.LevelNo, &res.SlotNo, &res.EntryTime, &res.ExitTime,
			&res.VehicleType, &res.Status, &res.BillAmount, &res.Paid, &res.PaidAt, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservations: %w", err)
	}
	return reservations, nil
}

// Cancel flips a reservation to cancelled in a single conditional update:
// it must belong to the user, still be 'reserved', and not have started.
// Bill amount and paid flag are left untouched. When nothing matches, a
// follow-up read picks the precise refusal reason.
func (r *ReservationRepository) Cancel(ctx context.Context, id int64, userID string, now time.Time) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE reservations SET status = 'cancelled'
		WHERE id = $1 AND user_id = $2 AND status = 'reserved' AND entry_time > $3`,
		id, userID, now)
	if err != nil {
		return fmt.Errorf("cancelling reservation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading cancel result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var status string
	var entry time.Time
	err = r.DB.QueryRowContext(ctx,
		`SELECT status, entry_time FROM reservations WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&status, &entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("diagnosing cancel failure: %w", err)
	}
	if status != db.StatusReserved {
		return ErrNotCancellable
	}
	return ErrAlreadyStarted
}

// MarkPaid records payment for a reservation the user owns. The update is
// conditional on status so a cancelled or completed row can never be paid;
// repeating it on an already paid row rewrites the same terminal state, and
// the COALESCE keeps the first payment timestamp.
func (r *ReservationRepository) MarkPaid(ctx context.Context, id int64, userID string, amount float64, paidAt time.Time) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE reservations SET paid = TRUE, status = 'paid', bill_amount = $3, paid_at = COALESCE(paid_at, $4)
		WHERE id = $1 AND user_id = $2 AND status IN ('reserved', 'paid')`,
		id, userID, amount, paidAt)
	if err != nil {
		return fmt.Errorf("marking reservation paid: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading payment result: %w", err)
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}
