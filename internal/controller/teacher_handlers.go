package controller

import (
	"net/http"
	"strconv"

	"github.com/Freeeeeet/roombooking/internal/apperr"
	"github.com/gorilla/mux"
)

type createRoomRequest struct {
	RoomNo   string `json:"room_no"`
	Date     string `json:"date"`
	TimeFrom string `json:"time_from"`
	TimeTo   string `json:"time_to"`
}

func (h *Handler) CreateRoomWindow(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req createRoomRequest
	if err := decode(r, &req); err != nil {
		respondError(w, apperr.Validation("invalid request body"))
		return
	}

	result, err := h.Rooms.CreateWindow(r.Context(), identity.UserID, req.RoomNo, req.Date, req.TimeFrom, req.TimeTo)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, result)
}

func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	windows, err := h.Rooms.ListWindows(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"rooms": windows})
}

func (h *Handler) TeacherBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListForTeacher(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	roomID, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Rooms.DeleteRoom(r.Context(), identity.UserID, roomID); err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	slotID, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Rooms.DeleteSlot(r.Context(), identity.UserID, slotID); err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true})
}

// pathID достаёт числовой {id} из пути
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}
