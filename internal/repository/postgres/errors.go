package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// mapError wraps a pgx error as "failed to <op>" and translates it to a domain sentinel.
// Context errors pass through unchanged.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", op, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("failed to %s: %w", op, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("failed to %s: %w", op, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("failed to %s: %w", op, domain.ErrValidation)
		}
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return fmt.Errorf("failed to %s: %w: %w", op, domain.ErrUnavailable, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
