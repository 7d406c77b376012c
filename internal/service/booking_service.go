package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/roombooking/internal/apperr"
	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
	"github.com/Freeeeeet/roombooking/internal/token"
	"go.uber.org/zap"
)

const recentBookingsLimit = 5

type BookingService struct {
	slots    repository.SlotRepository
	bookings repository.BookingRepository
	tx       repository.TxManager
	logger   *zap.Logger
	now      func() time.Time
}

func NewBookingService(
	slots repository.SlotRepository,
	bookings repository.BookingRepository,
	tx repository.TxManager,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		slots:    slots,
		bookings: bookings,
		tx:       tx,
		logger:   logger,
		now:      utcNow,
	}
}

// AvailableSlots получает свободные будущие слоты, roomNo пустой - все аудитории
func (s *BookingService) AvailableSlots(ctx context.Context, roomNo string) ([]*model.AvailableSlot, error) {
	slots, err := s.slots.ListFree(ctx, roomNo, s.now())
	if err != nil {
		return nil, apperr.Store(err, "list free slots")
	}
	return slots, nil
}

// Book бронирует слот для студента и выдаёт код брони.
// Проверка "слот свободен" и пометка "занят" - одно условное обновление
// внутри транзакции: из двух одновременных запросов на один слот пройдёт
// ровно один, второй получит конфликт.
func (s *BookingService) Book(ctx context.Context, studentID, slotID int64) (*model.Booking, error) {
	var booking *model.Booking

	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		slot, err := repos.Slots.GetByID(ctx, slotID)
		if err != nil {
			return apperr.Store(err, "get slot")
		}
		if slot == nil {
			return apperr.NotFound("slot not found")
		}
		if slot.StartTime.Before(s.now()) {
			return apperr.Validation("slot is in the past")
		}

		room, err := repos.Rooms.GetBySlotID(ctx, slotID)
		if err != nil {
			return apperr.Store(err, "get room")
		}
		if room == nil {
			return apperr.NotFound("room not found")
		}

		booked, err := repos.Slots.MarkBooked(ctx, slotID)
		if err != nil {
			return apperr.Store(err, "mark slot booked")
		}
		if !booked {
			return apperr.Conflict("slot is not available")
		}

		booking = &model.Booking{
			SlotID:    slotID,
			StudentID: studentID,
			TokenCode: token.ReservationCode(room.RoomNo, slot.StartTime),
		}

		if err := repos.Bookings.Create(ctx, booking); err != nil {
			// Уникальные ограничения на slot_id и token_code - страховка
			// машины состояний: сработали - значит нарушен её инвариант.
			// Новый код не подбираем, ошибка уходит наверх как есть.
			if base.IsUniqueViolation(err) {
				return apperr.Store(err, "booking invariant violated for slot %d", slotID)
			}
			return apperr.Store(err, "create booking")
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("slot_id", slotID),
		zap.String("token_code", booking.TokenCode),
	)

	return booking, nil
}

// Cancel отменяет бронирование: запись удаляется, слот освобождается,
// обе записи в одной транзакции. Студент отменяет только своё,
// учитель - любое, владение конкретной аудиторией не проверяется.
func (s *BookingService) Cancel(ctx context.Context, bookingID, requesterID int64, role model.Role) error {
	if !role.Valid() {
		return apperr.Forbidden("unknown role")
	}

	var studentID int64

	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		booking, err := repos.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return apperr.Store(err, "get booking")
		}
		if booking == nil {
			return apperr.NotFound("booking not found")
		}

		// Чужая бронь для студента неотличима от несуществующей
		if role == model.RoleStudent && booking.StudentID != requesterID {
			return apperr.NotFound("booking not found")
		}

		studentID = booking.StudentID

		if err := repos.Bookings.Delete(ctx, bookingID); err != nil {
			return apperr.Store(err, "delete booking")
		}
		if err := repos.Slots.MarkFree(ctx, booking.SlotID); err != nil {
			return apperr.Store(err, "free slot")
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Booking canceled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("student_id", studentID),
		zap.Int64("requester_id", requesterID),
		zap.String("requester_role", string(role)),
	)

	return nil
}

// ListForStudent получает бронирования студента
func (s *BookingService) ListForStudent(ctx context.Context, studentID int64) ([]*model.BookingDetail, error) {
	bookings, err := s.bookings.ListByStudent(ctx, studentID, 0)
	if err != nil {
		return nil, apperr.Store(err, "list student bookings")
	}
	return bookings, nil
}

// ListForTeacher получает все бронирования
func (s *BookingService) ListForTeacher(ctx context.Context) ([]*model.BookingDetail, error) {
	bookings, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, apperr.Store(err, "list all bookings")
	}
	return bookings, nil
}

// Dashboard собирает сводку по бронированиям студента
func (s *BookingService) Dashboard(ctx context.Context, studentID int64) (*model.StudentDashboard, error) {
	total, err := s.bookings.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, apperr.Store(err, "count bookings")
	}

	upcoming, err := s.bookings.CountUpcomingByStudent(ctx, studentID, s.now())
	if err != nil {
		return nil, apperr.Store(err, "count upcoming bookings")
	}

	recent, err := s.bookings.ListByStudent(ctx, studentID, recentBookingsLimit)
	if err != nil {
		return nil, apperr.Store(err, "list recent bookings")
	}

	return &model.StudentDashboard{
		TotalBookings:    total,
		UpcomingBookings: upcoming,
		RecentBookings:   recent,
	}, nil
}
