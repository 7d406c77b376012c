package model

import "time"

type Slot struct {
	ID        int64     `json:"id"`
	WindowID  int64     `json:"window_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Booked    bool      `json:"booked"`
	CreatedAt time.Time `json:"created_at"`
}

// AvailableSlot свободный слот вместе с номером аудитории для выдачи студенту
type AvailableSlot struct {
	SlotID    int64     `json:"slot_id"`
	RoomNo    string    `json:"room_no"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
