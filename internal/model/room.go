package model

import "time"

// Room физическая аудитория, идентифицируется номером на табличке
type Room struct {
	ID        int64     `json:"id"`
	RoomNo    string    `json:"room_no"`
	TeacherID int64     `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Window окно доступности аудитории на конкретную дату
type Window struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"room_id"`
	Date      time.Time `json:"date"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// WindowSummary окно с номером аудитории и счётчиками слотов (не из одной таблицы)
type WindowSummary struct {
	WindowID    int64     `json:"window_id"`
	RoomID      int64     `json:"room_id"`
	RoomNo      string    `json:"room_no"`
	Date        time.Time `json:"date"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	SlotsTotal  int       `json:"slots_total"`
	SlotsBooked int       `json:"slots_booked"`
}
