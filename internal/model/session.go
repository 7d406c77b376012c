package model

import "time"

// SessionTTL время жизни сессии, после него сессия удаляется при первом обращении
const SessionTTL = 24 * time.Hour

type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired проверяет что сессия старше SessionTTL
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > SessionTTL
}
