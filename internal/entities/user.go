package entities

import "time"

type SignupRequest struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	VehicleNo   string `json:"vehicle_no"`
	MobileNo    string `json:"mobile_no"`
	VehicleType string `json:"vehicle_type"`
}

type ProfileResponse struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	VehicleNo   string    `json:"vehicle_no"`
	MobileNo    string    `json:"mobile_no"`
	VehicleType string    `json:"vehicle_type"`
	CreatedAt   time.Time `json:"created_at"`
}
