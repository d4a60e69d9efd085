package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestClassify_CodigosDeConflicto(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "23505"} {
		err := classify(&pgconn.PgError{Code: code, Message: "x"}, "commit")
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict, code)
		assert.NotErrorIs(t, err, domain.ErrStoreUnavailable, code)
	}
}

func TestClassify_NoDisponible(t *testing.T) {
	cases := map[string]error{
		"conexión":      &pgconn.PgError{Code: "08006"},
		"apagado":       &pgconn.PgError{Code: "57P01"},
		"saturado":      &pgconn.PgError{Code: "53300"},
		"timeout":       fmt.Errorf("leer: %w", context.DeadlineExceeded),
		"error de red":  &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, classify(in, "leer"), domain.ErrStoreUnavailable)
		})
	}
}

func TestClassify_OtrosErroresSeEnvuelven(t *testing.T) {
	check := &pgconn.PgError{Code: "23514", ConstraintName: "inventory_records_reserved_le_quantity"}
	err := classify(check, "actualizar inventario")
	assert.ErrorIs(t, err, check)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "inventory_records_reserved_le_quantity")

	assert.ErrorIs(t, classify(pgx.ErrTxClosed, "commit"), pgx.ErrTxClosed)
	assert.ErrorIs(t, classify(context.Canceled, "leer"), context.Canceled)
	assert.NoError(t, classify(nil, "leer"))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.New("ERROR: duplicate key (SQLSTATE 23505)")))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
}
