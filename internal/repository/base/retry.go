package base

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

const (
	retryAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// Do выполняет операцию с ограниченным retry на временных ошибках хранилища.
// Нарушения ограничений и доменные ошибки не перезапускаются.
func Do(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBackoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// IsTransient проверяет что ошибка временная: обрыв соединения,
// serialization failure или deadlock. Такие операции безопасно повторить.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// class 08 - connection exception
		if strings.HasPrefix(pgErr.Code, "08") {
			return true
		}
		// serialization failure / deadlock detected
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return true
		}
	}

	return false
}
