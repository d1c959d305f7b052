package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/tadikamesra/tadika-mesra/internal/middlewares"
)

// ErrUniqueViolation is returned when an insert or update trips a unique
// constraint. The storage constraint is the authoritative uniqueness check;
// application-level pre-checks only exist to produce friendlier errors.
var ErrUniqueViolation = errors.New("unique constraint violation")

const pgUniqueViolationCode = "23505"

// ext returns the request-scoped transaction when one was opened by
// TxMiddleware, falling back to the shared connection pool.
func ext(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx := middlewares.GetTxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

// mapError converts driver-level unique violations to ErrUniqueViolation.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return ErrUniqueViolation
	}
	return err
}
