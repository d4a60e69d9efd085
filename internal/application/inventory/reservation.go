package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Reserve compromete cantidad disponible para un pedido. No cambia la existencia y, por política,
// no escribe transacción en el libro: la reserva afecta la disponibilidad, no el libro auditado.
func (l *StockLedger) Reserve(ctx context.Context, in ReservationInput) (res *ReservationResult, err error) {
	ctx, span := l.startSpan(ctx, "Reserve", keyAttrs(in.ProductID, in.WarehouseID, in.Quantity)...)
	defer func() { l.finish(span, "reserve", err) }()

	return l.applyReservation(ctx, "reserve", in, func(cur, next *entity.InventoryRecord) error {
		if !cur.CanReserve(in.Quantity) {
			return &domain.InsufficientStockError{Available: cur.AvailableQuantity(), Requested: in.Quantity}
		}
		next.ReservedQuantity += in.Quantity
		return nil
	})
}

// ReleaseReservation devuelve cantidad reservada a disponible. Tampoco escribe en el libro.
func (l *StockLedger) ReleaseReservation(ctx context.Context, in ReservationInput) (res *ReservationResult, err error) {
	ctx, span := l.startSpan(ctx, "ReleaseReservation", keyAttrs(in.ProductID, in.WarehouseID, in.Quantity)...)
	defer func() { l.finish(span, "release", err) }()

	return l.applyReservation(ctx, "release", in, func(cur, next *entity.InventoryRecord) error {
		if !cur.CanRelease(in.Quantity) {
			return &domain.ExcessReleaseError{Reserved: cur.ReservedQuantity, Requested: in.Quantity}
		}
		next.ReservedQuantity -= in.Quantity
		return nil
	})
}

func (l *StockLedger) applyReservation(
	ctx context.Context,
	op string,
	in ReservationInput,
	apply func(cur, next *entity.InventoryRecord) error,
) (*ReservationResult, error) {
	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: product_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
	}
	if err := l.requireExists(ctx, in.ProductID, in.UserID, in.WarehouseID); err != nil {
		return nil, err
	}

	key := entity.InventoryKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID}
	var next *entity.InventoryRecord
	err := l.execute(ctx, op, func(ctx context.Context) ([]repository.Write, error) {
		cur, err := l.get(ctx, key)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, &domain.RecordNotFoundError{ProductID: key.ProductID, WarehouseID: key.WarehouseID}
		}
		next = cur.Clone()
		if err := apply(cur, next); err != nil {
			return nil, err
		}
		next.UpdatedAt = l.cfg.Now()
		return []repository.Write{repository.InventoryWrite(next, cur.Version)}, nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Str("op", op).
		Str("product_id", key.ProductID).
		Str("warehouse_id", key.WarehouseID).
		Int64("amount", in.Quantity).
		Int64("reserved", next.ReservedQuantity).
		Int64("available", next.AvailableQuantity()).
		Str("reference", in.ReferenceNumber).
		Msg("reserva actualizada")
	return &ReservationResult{StockLevel: levelOf(next)}, nil
}
