package entities

import "time"

type SlotAvailability struct {
	SlotNo    int  `json:"slot_no"`
	Available bool `json:"available"`
}

type AvailabilityResponse struct {
	LevelNo   int                `json:"level_no"`
	EntryTime time.Time          `json:"entry_time"`
	ExitTime  time.Time          `json:"exit_time"`
	Slots     []SlotAvailability `json:"slots"`
	FreeCount int                `json:"free_count"`
}
