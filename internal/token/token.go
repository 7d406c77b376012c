package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ReservationCode строит код брони по аудитории и началу слота.
// Код детерминированный: одна пара (аудитория, начало) всегда даёт один код,
// уникальность по таблице обеспечивает ограничение в хранилище.
func ReservationCode(roomNo string, slotStart time.Time) string {
	return fmt.Sprintf("ROOM%s-%s-%s", roomNo, slotStart.Format("20060102"), slotStart.Format("1504"))
}

// NewSessionID генерирует непрозрачный идентификатор сессии: 16 случайных байт в hex, 32 символа
func NewSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
