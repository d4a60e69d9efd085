package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Códigos SQLSTATE que el almacén interpreta.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeAdminShutdown        = "57P01"
	codeTooManyConnections   = "53300"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// classify traduce un error de pgx a la taxonomía del libro:
// serialización, deadlock y llave duplicada son conflicto de concurrencia;
// conexión caída, timeout y servidor saturado son almacén no disponible.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", what, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeSerializationFailure, pgErr.Code == codeDeadlockDetected, pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %s: %s", domain.ErrConcurrencyConflict, what, pgErr.Message)
		case pgErr.Code == codeCheckViolation:
			return fmt.Errorf("%s: violación de restricción %s: %w", what, pgErr.ConstraintName, err)
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == codeAdminShutdown, pgErr.Code == codeTooManyConnections:
			return fmt.Errorf("%w: %s: %s", domain.ErrStoreUnavailable, what, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", what, err)
	}

	var netErr net.Error
	var connErr *pgconn.ConnectError
	if pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) ||
		pgconn.SafeToRetry(err) || errors.As(err, &netErr) || errors.As(err, &connErr) {
		return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
