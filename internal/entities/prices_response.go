package entities

type RateResponse struct {
	VehicleType string  `json:"vehicle_type"`
	RatePerHour float64 `json:"rate_per_hour"`
}
