package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/roombooking/internal/model"
	"github.com/Freeeeeet/roombooking/internal/repository/base"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}

type sessionRepository struct {
	db base.Querier
}

func NewSessionRepository(db base.Querier) SessionRepository {
	return &sessionRepository{db: db}
}

// Create создаёт новую сессию
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, session.ID, session.UserID, session.Role).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID получает сессию по идентификатору
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	query := `
		SELECT id, user_id, role, created_at
		FROM sessions
		WHERE id = $1
	`

	var session model.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Role,
		&session.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Сессия не найдена
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &session, nil
}

// Delete удаляет сессию
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteByUserID удаляет все сессии пользователя
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("delete sessions by user: %w", err)
	}

	return nil
}
