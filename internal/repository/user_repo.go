package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vpark/internal/db"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type UserRepository interface {
	Create(ctx context.Context, user *db.User) error
	GetByID(ctx context.Context, userID string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(ctx context.Context, user *db.User) error {
	query := `
		INSERT INTO users (user_id, user_name, password_hash, email, address, vehicle_no, mobile_no, vehicle_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.UserID,
		user.UserName,
		user.PasswordHash,
		user.Email,
		user.Address,
		user.VehicleNo,
		user.MobileNo,
		user.VehicleType,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrUserExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*db.User, error) {
	var user db.User
	query := `
		SELECT user_id, user_name, password_hash, email, address, vehicle_no, mobile_no, vehicle_type, created_at
		FROM users WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID,
		&user.UserName,
		&user.PasswordHash,
		&user.Email,
		&user.Address,
		&user.VehicleNo,
		&user.MobileNo,
		&user.VehicleType,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}
