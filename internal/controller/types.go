package controller

import (
	"context"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/service"
	"go.uber.org/zap"
)

// AuthService контракт авторизации, нужный транспортному слою
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, error)
	Login(ctx context.Context, email, password string, role model.Role) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutAll(ctx context.Context, userID int64) error
	Verify(ctx context.Context, sessionID string) (*model.Session, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)
}

// RoomService контракт управления аудиториями
type RoomService interface {
	CreateWindow(ctx context.Context, teacherID int64, roomNo, date, timeFrom, timeTo string) (*service.CreateWindowResult, error)
	ListWindows(ctx context.Context) ([]*model.WindowSummary, error)
	DeleteRoom(ctx context.Context, teacherID, roomID int64) error
	DeleteSlot(ctx context.Context, teacherID, slotID int64) error
}

// BookingService контракт бронирования
type BookingService interface {
	AvailableSlots(ctx context.Context, roomNo string) ([]*model.AvailableSlot, error)
	Book(ctx context.Context, studentID, slotID int64) (*model.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID int64, role model.Role) error
	ListForStudent(ctx context.Context, studentID int64) ([]*model.BookingDetail, error)
	ListForTeacher(ctx context.Context) ([]*model.BookingDetail, error)
	Dashboard(ctx context.Context, studentID int64) (*model.StudentDashboard, error)
}

// Handler держит зависимости всех HTTP-обработчиков
type Handler struct {
	Auth     AuthService
	Rooms    RoomService
	Bookings BookingService
	Logger   *zap.Logger
}

func NewHandler(auth AuthService, rooms RoomService, bookings BookingService, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:     auth,
		Rooms:    rooms,
		Bookings: bookings,
		Logger:   logger,
	}
}
