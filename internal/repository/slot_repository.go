package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
)

type SlotRepository interface {
	CreateBatch(ctx context.Context, windowID int64, slots []*model.Slot) error
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	ListFree(ctx context.Context, roomNo string, from time.Time) ([]*model.AvailableSlot, error)
	MarkBooked(ctx context.Context, slotID int64) (bool, error)
	MarkFree(ctx context.Context, slotID int64) error
	CountBookedByRoom(ctx context.Context, roomID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

type slotRepository struct {
	db base.Querier
}

func NewSlotRepository(db base.Querier) SlotRepository {
	return &slotRepository{db: db}
}

// CreateBatch создаёт все слоты окна одной серией вставок
func (r *slotRepository) CreateBatch(ctx context.Context, windowID int64, slots []*model.Slot) error {
	query := `
		INSERT INTO slots (window_id, start_time, end_time, booked)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	for _, slot := range slots {
		slot.WindowID = windowID
		err := r.db.QueryRow(ctx, query, windowID, slot.StartTime, slot.EndTime, slot.Booked).
			Scan(&slot.ID, &slot.CreatedAt)
		if err != nil {
			return fmt.Errorf("create slot: %w", err)
		}
	}

	return nil
}

// GetByID получает слот по ID
func (r *slotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `
		SELECT id, window_id, start_time, end_time, booked, created_at
		FROM slots
		WHERE id = $1
	`

	var slot model.Slot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.WindowID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Booked,
		&slot.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Слот не найден
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return &slot, nil
}

// ListFree получает свободные будущие слоты, при необходимости по одной аудитории
func (r *slotRepository) ListFree(ctx context.Context, roomNo string, from time.Time) ([]*model.AvailableSlot, error) {
	query := `
		SELECT s.id, r.room_no, w.date, s.start_time, s.end_time
		FROM slots s
		JOIN windows w ON w.id = s.window_id
		JOIN rooms r ON r.id = w.room_id
		WHERE NOT s.booked
		  AND s.start_time >= $1
		  AND ($2 = '' OR r.room_no = $2)
		ORDER BY s.start_time, r.room_no
	`

	rows, err := r.db.Query(ctx, query, from, roomNo)
	if err != nil {
		return nil, fmt.Errorf("list free slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailableSlot
	for rows.Next() {
		var s model.AvailableSlot
		err := rows.Scan(&s.SlotID, &s.RoomNo, &s.Date, &s.StartTime, &s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("scan free slot: %w", err)
		}
		slots = append(slots, &s)
	}

	return slots, nil
}

// MarkBooked помечает свободный слот занятым.
// Compare-and-set: условие booked = false в самом UPDATE, результат говорит
// успела ли другая бронь раньше.
func (r *slotRepository) MarkBooked(ctx context.Context, slotID int64) (bool, error) {
	query := `
		UPDATE slots
		SET booked = TRUE
		WHERE id = $1 AND NOT booked
	`

	result, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return false, fmt.Errorf("mark slot booked: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// MarkFree возвращает слот в свободное состояние
func (r *slotRepository) MarkFree(ctx context.Context, slotID int64) error {
	query := `
		UPDATE slots
		SET booked = FALSE
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, slotID)
	if err != nil {
		return fmt.Errorf("mark slot free: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// CountBookedByRoom считает занятые слоты во всех окнах аудитории
func (r *slotRepository) CountBookedByRoom(ctx context.Context, roomID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM slots s
		JOIN windows w ON w.id = s.window_id
		WHERE w.room_id = $1 AND s.booked
	`

	var count int
	if err := r.db.QueryRow(ctx, query, roomID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count booked slots: %w", err)
	}

	return count, nil
}

// Delete удаляет слот
func (r *slotRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM slots WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}
