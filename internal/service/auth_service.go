package service

import (
	"context"
	"strings"
	"time"

	"github.com/Freeeeeet/roombooking/internal/apperr"
	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
	"github.com/Freeeeeet/roombooking/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger,
		now:      utcNow,
	}
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("invalid email address")
	}
	if !role.Valid() {
		return nil, apperr.Validation("role must be student or teacher")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Store(err, "hash password")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, apperr.Conflict("user with this email already exists")
		}
		return nil, apperr.Store(err, "create user")
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(role)),
	)

	return user, nil
}

// Login проверяет учётные данные и создаёт сессию
func (s *AuthService) Login(ctx context.Context, email, password string, role model.Role) (*model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" || !role.Valid() {
		return nil, apperr.Validation("email, password and role are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Store(err, "get user")
	}

	// Несуществующий email, чужая роль и неверный пароль неразличимы для вызывающего
	if user == nil || user.Role != role {
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Unauthenticated("invalid credentials")
	}

	sessionID, err := token.NewSessionID()
	if err != nil {
		return nil, apperr.Store(err, "generate session id")
	}

	session := &model.Session{
		ID:     sessionID,
		UserID: user.ID,
		Role:   user.Role,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperr.Store(err, "create session")
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)

	return session, nil
}

// Logout удаляет сессию
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperr.Store(err, "delete session")
	}
	return nil
}

// Verify проверяет сессию, просроченная удаляется при этом же обращении
func (s *AuthService) Verify(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, apperr.Unauthenticated("no session")
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, apperr.Store(err, "get session")
	}

	if session == nil {
		return nil, apperr.Unauthenticated("no session")
	}

	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return nil, apperr.Store(err, "purge expired session")
		}

		s.logger.Info("Expired session purged",
			zap.Int64("user_id", session.UserID),
		)

		return nil, apperr.Unauthenticated("session expired")
	}

	return session, nil
}

// Profile возвращает пользователя текущей сессии
func (s *AuthService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err, "get user")
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// LogoutAll отзывает все сессии пользователя разом
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
		return apperr.Store(err, "delete user sessions")
	}

	s.logger.Info("All sessions revoked",
		zap.Int64("user_id", userID),
	)

	return nil
}
