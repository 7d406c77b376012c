package controller

import (
	"encoding/json"
	"net/http"

	"github.com/Freeeeeet/roombooking/internal/apperr"
)

// respond пишет тело ответа как JSON с заданным статусом
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// respondError переводит класс доменной ошибки в HTTP-статус
func respondError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)

	var status int
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Детали ошибок хранилища наружу не выдаём
		msg = "internal error"
	}

	respond(w, status, errorBody{Error: msg, Kind: kind.String()})
}

// decode разбирает JSON-тело запроса
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
