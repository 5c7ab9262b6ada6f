package api

import "time"

// Auth
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}
type LoginResponse struct {
	Token string `json:"token"`
}

// Availability
type AvailabilityRequest struct {
	LevelNo   int       `json:"level_no"`
	EntryTime time.Time `json:"entry_time"`
	ExitTime  time.Time `json:"exit_time"`
}

// Quote
type QuoteRequest struct {
	VehicleType string    `json:"vehicle_type"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
