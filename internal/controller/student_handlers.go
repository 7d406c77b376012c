package controller

import (
	"net/http"

	"github.com/Freeeeeet/roombooking/internal/apperr"
)

func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	roomNo := r.URL.Query().Get("room_no")

	slots, err := h.Bookings.AvailableSlots(r.Context(), roomNo)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"slots": slots})
}

type bookRequest struct {
	SlotID int64 `json:"slot_id"`
}

func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	var req bookRequest
	if err := decode(r, &req); err != nil {
		respondError(w, apperr.Validation("invalid request body"))
		return
	}
	if req.SlotID <= 0 {
		respondError(w, apperr.Validation("slot_id is required"))
		return
	}

	booking, err := h.Bookings.Book(r.Context(), identity.UserID, req.SlotID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"booking_id": booking.ID,
		"token_code": booking.TokenCode,
	})
}

func (h *Handler) StudentBookings(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	bookings, err := h.Bookings.ListForStudent(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	dashboard, err := h.Bookings.Dashboard(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, dashboard)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	bookingID, err := pathID(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Bookings.Cancel(r.Context(), bookingID, identity.UserID, identity.Role); err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"success": true})
}
