// Package repository implements data access against Postgres. Sentinel
// errors defined here let the service and API layers distinguish failure
// modes without inspecting SQL details.
package repository

import "errors"

var (
	// ErrUserExists is returned when a signup reuses an existing user id.
	ErrUserExists = errors.New("user id already exists")

	// ErrSlotTaken is returned when the requested slot has a conflicting
	// reservation for an overlapping time window.
	ErrSlotTaken = errors.New("slot already reserved for an overlapping time window")

	// ErrReservationNotFound covers both a missing row and a row owned by
	// someone else; callers are not told which.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrNotCancellable is returned when a cancellation targets a row whose
	// status is not 'reserved'.
	ErrNotCancellable = errors.New("only reserved reservations can be cancelled")

	// ErrAlreadyStarted is returned when a cancellation arrives at or after
	// the entry time.
	ErrAlreadyStarted = errors.New("reservation entry time has already passed")
)
