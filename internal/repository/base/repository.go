package base

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier объединяет *pgxpool.Pool и pgx.Tx: репозитории выполняют запросы
// одинаково внутри и вне транзакции.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// IsNotFound проверяет, является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsConflict проверяет, нарушен ли exclusion или unique constraint.
// Для бронирований это означает проигранную гонку за слот.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrExclusionViolation || pgErr.Code == pgerrUniqueViolation
	}
	return false
}

const (
	pgerrExclusionViolation = "23P01"
	pgerrUniqueViolation    = "23505"
)
