package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/business-assistant/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: domain.ErrAlreadyExists},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, want: domain.ErrNotFound},
		{name: "check violation", err: &pgconn.PgError{Code: "23514"}, want: domain.ErrValidation},
		{name: "deadline passes through", err: context.DeadlineExceeded, want: context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.err, "do thing")
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "failed to do thing")
		})
	}
}

func TestMapError_NilAndUnknown(t *testing.T) {
	assert.NoError(t, mapError(nil, "noop"))

	raw := errors.New("boom")
	err := mapError(raw, "explode")
	assert.ErrorIs(t, err, raw)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrUnavailable))
}

func TestMapError_OtherPgErrorKeepsCause(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	err := mapError(pgErr, "query")

	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, "42P01", got.Code)
}
