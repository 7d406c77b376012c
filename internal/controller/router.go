package controller

import (
	"net/http"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты API: публичная авторизация и два
// защищённых поддерева, учительское и студенческое
func NewRouter(h *Handler, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger))

	api := r.PathPrefix("/api").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)

	check := api.PathPrefix("/auth/check").Subrouter()
	check.Use(h.Authenticate)
	check.HandleFunc("", h.Check).Methods(http.MethodGet)

	logoutAll := api.PathPrefix("/auth/logout-all").Subrouter()
	logoutAll.Use(h.Authenticate)
	logoutAll.HandleFunc("", h.LogoutAll).Methods(http.MethodPost)

	teacher := api.PathPrefix("/teacher").Subrouter()
	teacher.Use(h.Authenticate)
	teacher.Use(RequireRole(model.RoleTeacher))
	teacher.HandleFunc("/rooms", h.CreateRoomWindow).Methods(http.MethodPost)
	teacher.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet)
	teacher.HandleFunc("/rooms/{id:[0-9]+}", h.DeleteRoom).Methods(http.MethodDelete)
	teacher.HandleFunc("/slots/{id:[0-9]+}", h.DeleteSlot).Methods(http.MethodDelete)
	teacher.HandleFunc("/bookings", h.TeacherBookings).Methods(http.MethodGet)

	student := api.PathPrefix("/student").Subrouter()
	student.Use(h.Authenticate)
	student.Use(RequireRole(model.RoleStudent))
	student.HandleFunc("/slots", h.AvailableSlots).Methods(http.MethodGet)
	student.HandleFunc("/book", h.Book).Methods(http.MethodPost)
	student.HandleFunc("/bookings", h.StudentBookings).Methods(http.MethodGet)
	student.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)

	// Отмена доступна обеим ролям, права проверяет сервис
	bookings := api.PathPrefix("/bookings").Subrouter()
	bookings.Use(h.Authenticate)
	bookings.HandleFunc("/{id:[0-9]+}", h.CancelBooking).Methods(http.MethodDelete)

	return r
}
