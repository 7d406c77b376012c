package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/roombooking/internal/apperr"
	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookie имя cookie с идентификатором сессии
const SessionCookie = "sessionId"

type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "request_id"
)

// Identity аутентифицированный пользователь запроса.
// Создаётся один раз в Authenticate и передаётся через контекст,
// обработчики не разбирают cookie повторно.
type Identity struct {
	UserID    int64
	Role      model.Role
	SessionID string
}

// IdentityFrom достаёт Identity из контекста запроса
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// RequestID присваивает каждому запросу идентификатор
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger логирует каждый запрос с его идентификатором
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)

			requestID, _ := r.Context().Value(requestIDKey).(string)
			logger.Info("Request handled",
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Authenticate разрешает сессию из cookie в Identity
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			respondError(w, apperr.Unauthenticated("no session cookie"))
			return
		}

		session, err := h.Auth.Verify(r.Context(), cookie.Value)
		if err != nil {
			respondError(w, err)
			return
		}

		identity := Identity{
			UserID:    session.UserID,
			Role:      session.Role,
			SessionID: session.ID,
		}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole пропускает только запросы с нужной ролью, ставится после Authenticate
func RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				respondError(w, apperr.Unauthenticated("no session"))
				return
			}
			if identity.Role != role {
				respondError(w, apperr.Forbidden("operation requires %s role", role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
