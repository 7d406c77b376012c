package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/roombooking/internal/apperr"
	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
	"github.com/Freeeeeet/roombooking/internal/schedule"
	"go.uber.org/zap"
)

type RoomService struct {
	rooms  repository.RoomRepository
	slots  repository.SlotRepository
	tx     repository.TxManager
	logger *zap.Logger
	now    func() time.Time
}

func NewRoomService(
	rooms repository.RoomRepository,
	slots repository.SlotRepository,
	tx repository.TxManager,
	logger *zap.Logger,
) *RoomService {
	return &RoomService{
		rooms:  rooms,
		slots:  slots,
		tx:     tx,
		logger: logger,
		now:    utcNow,
	}
}

// CreateWindowResult итог создания окна доступности
type CreateWindowResult struct {
	RoomID       int64 `json:"room_id"`
	WindowID     int64 `json:"window_id"`
	SlotsCreated int   `json:"slots_created"`
}

// CreateWindow публикует окно доступности аудитории и нарезает его на слоты.
// Проверка пересечений, вставка окна и вся пачка слотов идут одной транзакцией:
// сбой на любом шаге не оставляет окно без слотов или наоборот.
func (s *RoomService) CreateWindow(ctx context.Context, teacherID int64, roomNo, date, timeFrom, timeTo string) (*CreateWindowResult, error) {
	window, err := schedule.ParseWindow(roomNo, date, timeFrom, timeTo, s.now())
	if err != nil {
		return nil, err
	}

	var result CreateWindowResult

	err = s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		// Строка аудитории блокируется до конца транзакции, конкурентные
		// создатели окон этой аудитории выполняются по очереди
		room, err := repos.Rooms.GetByNoForUpdate(ctx, window.RoomNo)
		if err != nil {
			return apperr.Store(err, "get room")
		}

		if room == nil {
			room = &model.Room{RoomNo: window.RoomNo, TeacherID: teacherID}
			if err := repos.Rooms.Create(ctx, room); err != nil {
				if base.IsUniqueViolation(err) {
					return apperr.Conflict("room %s was just created by another request, retry", window.RoomNo)
				}
				return apperr.Store(err, "create room")
			}
		}

		existing, err := repos.Rooms.GetWindows(ctx, room.ID, window.Date.Format("2006-01-02"))
		if err != nil {
			return apperr.Store(err, "get windows")
		}

		// На аудиторию допускается одно окно в день: пересечение
		// сообщаем с временами, остальное как дубликат даты
		if len(existing) > 0 {
			if conflict := schedule.FindOverlap(window, existing); conflict != nil {
				return apperr.Conflict("time conflict with existing window %s - %s in room %s",
					conflict.StartTime.Format("15:04"),
					conflict.EndTime.Format("15:04"),
					window.RoomNo,
				)
			}
			return apperr.Conflict("room %s already has a window on %s", window.RoomNo, date)
		}

		w := &model.Window{
			RoomID:    room.ID,
			Date:      window.Date,
			StartTime: window.StartTime,
			EndTime:   window.EndTime,
		}
		if err := repos.Rooms.CreateWindow(ctx, w); err != nil {
			if base.IsUniqueViolation(err) {
				return apperr.Conflict("room %s already has a window on %s", window.RoomNo, date)
			}
			return apperr.Store(err, "create window")
		}

		slots := schedule.GenerateSlots(window)
		if err := repos.Slots.CreateBatch(ctx, w.ID, slots); err != nil {
			return apperr.Store(err, "create slots")
		}

		result = CreateWindowResult{
			RoomID:       room.ID,
			WindowID:     w.ID,
			SlotsCreated: len(slots),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Room window created",
		zap.Int64("teacher_id", teacherID),
		zap.Int64("room_id", result.RoomID),
		zap.Int64("window_id", result.WindowID),
		zap.String("room_no", window.RoomNo),
		zap.Int("slots_created", result.SlotsCreated),
	)

	return &result, nil
}

// ListWindows получает все окна с номерами аудиторий и счётчиками слотов
func (s *RoomService) ListWindows(ctx context.Context) ([]*model.WindowSummary, error) {
	summaries, err := s.rooms.ListWindowSummaries(ctx)
	if err != nil {
		return nil, apperr.Store(err, "list windows")
	}
	return summaries, nil
}

// DeleteRoom удаляет аудиторию со всеми окнами и слотами.
// Аудитория с хотя бы одним занятым слотом неизменяема: сначала отмена броней.
func (s *RoomService) DeleteRoom(ctx context.Context, teacherID, roomID int64) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		room, err := repos.Rooms.GetByID(ctx, roomID)
		if err != nil {
			return apperr.Store(err, "get room")
		}
		if room == nil {
			return apperr.NotFound("room not found")
		}

		booked, err := repos.Slots.CountBookedByRoom(ctx, roomID)
		if err != nil {
			return apperr.Store(err, "count booked slots")
		}
		if booked > 0 {
			return apperr.Conflict("cannot delete room with booked slots, cancel all bookings first")
		}

		if err := repos.Rooms.Delete(ctx, roomID); err != nil {
			return apperr.Store(err, "delete room")
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Room deleted",
		zap.Int64("teacher_id", teacherID),
		zap.Int64("room_id", roomID),
	)

	return nil
}

// DeleteSlot удаляет один свободный слот
func (s *RoomService) DeleteSlot(ctx context.Context, teacherID, slotID int64) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepos) error {
		slot, err := repos.Slots.GetByID(ctx, slotID)
		if err != nil {
			return apperr.Store(err, "get slot")
		}
		if slot == nil {
			return apperr.NotFound("slot not found")
		}
		if slot.Booked {
			return apperr.Conflict("cannot delete a booked slot")
		}

		if err := repos.Slots.Delete(ctx, slotID); err != nil {
			return apperr.Store(err, "delete slot")
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Slot deleted",
		zap.Int64("teacher_id", teacherID),
		zap.Int64("slot_id", slotID),
	)

	return nil
}
