package service

import (
	"fmt"
	"log"
	"time"

	"vpark/internal/config"
	"vpark/internal/db"
	"vpark/internal/entities"
)

const timestampLayout = "02 Jan 2006 15:04 MST"

// SenderService composes and dispatches reservation lifecycle emails and
// SMS. Delivery is fire-and-forget; failures are logged, never returned to
// the reservation flow.
type SenderService struct {
	cfg *config.Config
}

func NewSenderService(cfg *config.Config) *SenderService {
	return &SenderService{cfg: cfg}
}

// ReservationEvent implements the engine's Notifier for events
// "confirmed", "cancelled" and "paid".
func (s *SenderService) ReservationEvent(user db.User, res db.Reservation, event string) {
	data := entities.ReservationEmailData{
		UserName:           user.UserName,
		ReservationID:      res.ID,
		LevelNo:            res.LevelNo,
		SlotNo:             res.SlotNo,
		VehicleType:        res.VehicleType,
		EntryTimeFormatted: res.EntryTime.UTC().Format(timestampLayout),
		ExitTimeFormatted:  res.ExitTime.UTC().Format(timestampLayout),
		Status:             event,
		BillAmount:         res.BillAmount,
		CurrentYear:        time.Now().UTC().Year(),
	}

	subject := fmt.Sprintf("Your VPark reservation #%d is %s", data.ReservationID, data.Status)
	plainBody := fmt.Sprintf(
		"Hello %s,\n\nYour VPark reservation is %s.\n\n"+
			"Reservation Details:\n"+
			"Reservation ID: %d\n"+
			"Level: %d, Slot: %d\n"+
			"Vehicle: %s\n"+
			"Entry: %s\n"+
			"Exit: %s\n"+
			"Bill Amount: %.2f\n\n"+
			"Thank you for using VPark.\n\n"+
			"VPark %d. All rights reserved.",
		data.UserName, data.Status, data.ReservationID, data.LevelNo, data.SlotNo,
		data.VehicleType, data.EntryTimeFormatted, data.ExitTimeFormatted,
		data.BillAmount, data.CurrentYear,
	)

	smsBody := fmt.Sprintf("VPark: reservation #%d is %s. Level %d slot %d, entry %s. Details in your email.",
		data.ReservationID, data.Status, data.LevelNo, data.SlotNo, data.EntryTimeFormatted)

	if user.MobileNo != "" {
		go func(to, body string) {
			if err := SendSMS(s.cfg, to, body); err != nil {
				log.Printf("SMS for reservation %d not sent: %v", data.ReservationID, err)
			}
		}(user.MobileNo, smsBody)
	}

	if user.Email != "" {
		go func(to, name, subj, body string) {
			if err := SendEmailWithSendGrid(s.cfg, to, name, subj, body, body); err != nil {
				log.Printf("Email for reservation %d not sent: %v", data.ReservationID, err)
			}
		}(user.Email, data.UserName, subject, plainBody)
	}
}
