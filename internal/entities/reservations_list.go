package entities

type PendingBill struct {
	Reservation ReservationResponse `json:"reservation"`
	BilledHours int                 `json:"billed_hours"`
	AmountDue   float64             `json:"amount_due"`
}

type ReservationsList struct {
	Total        int                   `json:"total"`
	Reservations []ReservationResponse `json:"reservations"`
}
