package entities

// ReservationEmailData feeds the confirmation email and SMS bodies.
type ReservationEmailData struct {
	UserName           string
	ReservationID      int64
	LevelNo            int
	SlotNo             int
	VehicleType        string
	EntryTimeFormatted string
	ExitTimeFormatted  string
	Status             string
	BillAmount         float64
	CurrentYear        int
}
