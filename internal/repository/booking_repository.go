package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	Delete(ctx context.Context, id int64) error
	ListByStudent(ctx context.Context, studentID int64, limit int) ([]*model.BookingDetail, error)
	ListAll(ctx context.Context) ([]*model.BookingDetail, error)
	CountByStudent(ctx context.Context, studentID int64) (int, error)
	CountUpcomingByStudent(ctx context.Context, studentID int64, now time.Time) (int, error)
}

type bookingRepository struct {
	db base.Querier
}

func NewBookingRepository(db base.Querier) BookingRepository {
	return &bookingRepository{db: db}
}

// Create создаёт новое бронирование
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (slot_id, student_id, token_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		booking.SlotID,
		booking.StudentID,
		booking.TokenCode,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, slot_id, student_id, token_code, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.SlotID,
		&booking.StudentID,
		&booking.TokenCode,
		&booking.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Бронирование не найдено
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// Delete удаляет бронирование
func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

const bookingDetailSelect = `
	SELECT b.id, b.student_id, u.name, r.room_no, w.date, s.start_time, s.end_time, b.token_code, b.created_at
	FROM bookings b
	JOIN slots s ON s.id = b.slot_id
	JOIN windows w ON w.id = s.window_id
	JOIN rooms r ON r.id = w.room_id
	JOIN users u ON u.id = b.student_id
`

// ListByStudent получает бронирования студента, новые первыми, limit <= 0 - без лимита
func (r *bookingRepository) ListByStudent(ctx context.Context, studentID int64, limit int) ([]*model.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.student_id = $1
		ORDER BY b.created_at DESC
	`
	args := []any{studentID}

	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings by student: %w", err)
	}
	defer rows.Close()

	return scanBookingDetails(rows)
}

// ListAll получает все бронирования для учителя, новые первыми
func (r *bookingRepository) ListAll(ctx context.Context) ([]*model.BookingDetail, error) {
	query := bookingDetailSelect + `
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	defer rows.Close()

	return scanBookingDetails(rows)
}

// CountByStudent считает все бронирования студента
func (r *bookingRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE student_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, studentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings by student: %w", err)
	}

	return count, nil
}

// CountUpcomingByStudent считает бронирования студента на будущие слоты
func (r *bookingRepository) CountUpcomingByStudent(ctx context.Context, studentID int64, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		WHERE b.student_id = $1 AND s.start_time > $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, studentID, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("count upcoming bookings: %w", err)
	}

	return count, nil
}

func scanBookingDetails(rows pgx.Rows) ([]*model.BookingDetail, error) {
	var bookings []*model.BookingDetail
	for rows.Next() {
		var b model.BookingDetail
		err := rows.Scan(
			&b.BookingID,
			&b.StudentID,
			&b.StudentName,
			&b.RoomNo,
			&b.Date,
			&b.StartTime,
			&b.EndTime,
			&b.TokenCode,
			&b.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, nil
}
