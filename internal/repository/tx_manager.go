package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/roombooking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepos репозитории, привязанные к одной транзакции
type TxRepos struct {
	Rooms    RoomRepository
	Slots    SlotRepository
	Bookings BookingRepository
}

// TxManager выполняет функцию в одной транзакции: все записи внутри
// коммитятся вместе или не коммитятся вовсе
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

type PgxTxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

// WithTx открывает транзакцию, отдаёт tx-привязанные репозитории и коммитит.
// Временные ошибки хранилища перезапускаются целой транзакцией, доменные - нет.
func (m *PgxTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error {
	return base.Do(ctx, func(ctx context.Context) error {
		tx, err := m.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		repos := TxRepos{
			Rooms:    NewRoomRepository(tx),
			Slots:    NewSlotRepository(tx),
			Bookings: NewBookingRepository(tx),
		}

		if err := fn(ctx, repos); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}

		return nil
	})
}
