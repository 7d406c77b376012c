package model

import "time"

type Booking struct {
	ID        int64     `json:"id"`
	SlotID    int64     `json:"slot_id"`
	StudentID int64     `json:"student_id"`
	TokenCode string    `json:"token_code"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingDetail бронирование вместе со слотом, аудиторией и студентом
type BookingDetail struct {
	BookingID   int64     `json:"booking_id"`
	StudentID   int64     `json:"student_id"`
	StudentName string    `json:"student_name"`
	RoomNo      string    `json:"room_no"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	TokenCode   string    `json:"token_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// StudentDashboard сводка по бронированиям студента
type StudentDashboard struct {
	TotalBookings    int              `json:"total_bookings"`
	UpcomingBookings int              `json:"upcoming_bookings"`
	RecentBookings   []*BookingDetail `json:"recent_bookings"`
}
