package db

import (
	"database/sql"
	"time"
)

// Reservation statuses. A row starts as reserved, may move to paid or
// cancelled, and the completion job moves reserved/paid rows past their
// exit time to completed.
const (
	StatusReserved  = "reserved"
	StatusCancelled = "cancelled"
	StatusPaid      = "paid"
	StatusCompleted = "completed"
)

type User struct {
	UserID       string
	UserName     string
	PasswordHash string
	Email        string
	Address      string
	VehicleNo    string
	MobileNo     string
	VehicleType  string
	CreatedAt    time.Time
}

type Reservation struct {
	ID          int64
	UserID      string
	LevelNo     int
	SlotNo      int
	EntryTime   time.Time
	ExitTime    time.Time
	VehicleType string
	Status      string
	BillAmount  float64
	Paid        bool
	PaidAt      sql.NullTime
	CreatedAt   time.Time
}
