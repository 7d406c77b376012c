package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id int64) (*model.Room, error)
	GetByNo(ctx context.Context, roomNo string) (*model.Room, error)
	GetByNoForUpdate(ctx context.Context, roomNo string) (*model.Room, error)
	GetBySlotID(ctx context.Context, slotID int64) (*model.Room, error)
	CreateWindow(ctx context.Context, window *model.Window) error
	GetWindows(ctx context.Context, roomID int64, date string) ([]*model.Window, error)
	ListWindowSummaries(ctx context.Context) ([]*model.WindowSummary, error)
	Delete(ctx context.Context, id int64) error
}

type roomRepository struct {
	db base.Querier
}

func NewRoomRepository(db base.Querier) RoomRepository {
	return &roomRepository{db: db}
}

// Create создаёт новую аудиторию
func (r *roomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (room_no, teacher_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, room.RoomNo, room.TeacherID).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

// GetByID получает аудиторию по ID
func (r *roomRepository) GetByID(ctx context.Context, id int64) (*model.Room, error) {
	query := `
		SELECT id, room_no, teacher_id, created_at
		FROM rooms
		WHERE id = $1
	`

	var room model.Room
	err := r.db.QueryRow(ctx, query, id).Scan(&room.ID, &room.RoomNo, &room.TeacherID, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	return &room, nil
}

// GetByNo получает аудиторию по номеру
func (r *roomRepository) GetByNo(ctx context.Context, roomNo string) (*model.Room, error) {
	query := `
		SELECT id, room_no, teacher_id, created_at
		FROM rooms
		WHERE room_no = $1
	`

	var room model.Room
	err := r.db.QueryRow(ctx, query, roomNo).Scan(&room.ID, &room.RoomNo, &room.TeacherID, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Аудитория не найдена
		}
		return nil, fmt.Errorf("get room by no: %w", err)
	}

	return &room, nil
}

// GetByNoForUpdate получает аудиторию по номеру и блокирует её строку
// до конца транзакции. Конкурентные создатели окон этой аудитории
// выстраиваются в очередь и видят окна друг друга.
func (r *roomRepository) GetByNoForUpdate(ctx context.Context, roomNo string) (*model.Room, error) {
	query := `
		SELECT id, room_no, teacher_id, created_at
		FROM rooms
		WHERE room_no = $1
		FOR UPDATE
	`

	var room model.Room
	err := r.db.QueryRow(ctx, query, roomNo).Scan(&room.ID, &room.RoomNo, &room.TeacherID, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by no for update: %w", err)
	}

	return &room, nil
}

// GetBySlotID получает аудиторию, которой принадлежит слот
func (r *roomRepository) GetBySlotID(ctx context.Context, slotID int64) (*model.Room, error) {
	query := `
		SELECT r.id, r.room_no, r.teacher_id, r.created_at
		FROM rooms r
		JOIN windows w ON w.room_id = r.id
		JOIN slots s ON s.window_id = w.id
		WHERE s.id = $1
	`

	var room model.Room
	err := r.db.QueryRow(ctx, query, slotID).Scan(&room.ID, &room.RoomNo, &room.TeacherID, &room.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by slot: %w", err)
	}

	return &room, nil
}

// CreateWindow создаёт окно доступности аудитории
func (r *roomRepository) CreateWindow(ctx context.Context, window *model.Window) error {
	query := `
		INSERT INTO windows (room_id, date, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		window.RoomID,
		window.Date,
		window.StartTime,
		window.EndTime,
	).Scan(&window.ID, &window.CreatedAt)

	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	return nil
}

// GetWindows получает окна аудитории на дату, упорядоченные по началу
func (r *roomRepository) GetWindows(ctx context.Context, roomID int64, date string) ([]*model.Window, error) {
	query := `
		SELECT id, room_id, date, start_time, end_time, created_at
		FROM windows
		WHERE room_id = $1 AND date = $2
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, roomID, date)
	if err != nil {
		return nil, fmt.Errorf("get windows: %w", err)
	}
	defer rows.Close()

	var windows []*model.Window
	for rows.Next() {
		var w model.Window
		err := rows.Scan(&w.ID, &w.RoomID, &w.Date, &w.StartTime, &w.EndTime, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		windows = append(windows, &w)
	}

	return windows, nil
}

// ListWindowSummaries получает все окна с номерами аудиторий и счётчиками слотов
func (r *roomRepository) ListWindowSummaries(ctx context.Context) ([]*model.WindowSummary, error) {
	query := `
		SELECT w.id, r.id, r.room_no, w.date, w.start_time, w.end_time,
		       COUNT(s.id) AS slots_total,
		       COUNT(s.id) FILTER (WHERE s.booked) AS slots_booked
		FROM windows w
		JOIN rooms r ON r.id = w.room_id
		LEFT JOIN slots s ON s.window_id = w.id
		GROUP BY w.id, r.id, r.room_no, w.date, w.start_time, w.end_time
		ORDER BY w.date, w.start_time, r.room_no
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list window summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*model.WindowSummary
	for rows.Next() {
		var s model.WindowSummary
		err := rows.Scan(
			&s.WindowID,
			&s.RoomID,
			&s.RoomNo,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.SlotsTotal,
			&s.SlotsBooked,
		)
		if err != nil {
			return nil, fmt.Errorf("scan window summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	return summaries, nil
}

// Delete удаляет аудиторию, окна и слоты удаляются каскадом
func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM rooms WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("room not found")
	}

	return nil
}
