package controller

import (
	"net/http"

	"github.com/Freeeeeet/roombooking/internal/apperr"
	"github.com/Freeeeeet/roombooking/internal/model"
)

type registerRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		respondError(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"user_id": user.ID,
		"role":    user.Role,
	})
}

type loginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, apperr.Validation("invalid request body"))
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(model.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond(w, http.StatusOK, map[string]any{
		"success": true,
		"role":    session.Role,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		if err := h.Auth.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, err)
			return
		}
	}

	// Гасим cookie независимо от того, была ли сессия в базе
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respond(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthenticated("no session"))
		return
	}

	user, err := h.Auth.Profile(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
	})
}

// LogoutAll отзывает все сессии пользователя на всех устройствах
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthenticated("no session"))
		return
	}

	if err := h.Auth.LogoutAll(r.Context(), identity.UserID); err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	respond(w, http.StatusOK, map[string]any{"success": true})
}
