package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// errorMapping estado HTTP y código para cada falla tipada del libro.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidAdjustment, fiber.StatusUnprocessableEntity, "INVALID_ADJUSTMENT"},
	{domain.ErrInvalidTransfer, fiber.StatusUnprocessableEntity, "INVALID_TRANSFER"},
	{domain.ErrRecordNotFound, fiber.StatusNotFound, "RECORD_NOT_FOUND"},
	{domain.ErrPreconditionFailed, fiber.StatusNotFound, "PRECONDITION_FAILED"},
	{domain.ErrInsufficientAvailableStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrExcessReleaseRequested, fiber.StatusConflict, "EXCESS_RELEASE"},
	{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
	{domain.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
}

// writeError traduce err a dto.ErrorResponse. Lo no tipado es 500 y se registra en el log.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			if m.status == fiber.StatusServiceUnavailable {
				c.Set(fiber.HeaderRetryAfter, "1")
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REQUEST_CANCELLED", Message: "la operación no se confirmó"})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no tipado en handler")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
