package entities

import "time"

type CreateReservationRequest struct {
	LevelNo     int       `json:"level_no"`
	SlotNo      int       `json:"slot_no"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	VehicleType string    `json:"vehicle_type"`
}

type ReservationResponse struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	LevelNo     int       `json:"level_no"`
	SlotNo      int       `json:"slot_no"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	VehicleType string    `json:"vehicle_type"`
	Status      string    `json:"status"`
	BillAmount  float64   `json:"bill_amount"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
}

// CardDetails is the simulated payment instrument. Nothing is charged;
// the numbers are only shape-checked.
type CardDetails struct {
	Number string `json:"card_number"`
	Expiry string `json:"card_expiry"`
	CVV    string `json:"card_cvv"`
}

type Quote struct {
	VehicleType string    `json:"vehicle_type"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	BilledHours int       `json:"billed_hours"`
	RatePerHour float64   `json:"rate_per_hour"`
	Amount      float64   `json:"amount"`
}

type Receipt struct {
	ReservationID int64     `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
}
