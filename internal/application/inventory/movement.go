package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	costing "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// movement describe un cambio de existencia sobre un solo registro (ajuste, entrada o salida).
type movement struct {
	op        string
	key       entity.InventoryKey
	txType    string
	delta     int64
	unitCost  *decimal.Decimal
	userID    string
	reason    string
	reference string
	notes     string
	// check valida el delta contra el estado leído; su error corta sin reintento.
	check func(cur *entity.InventoryRecord) error
}

// Adjust aplica un delta firmado. Crea el registro en cero si el par no tiene inventario.
// Falla con InvalidAdjustmentError si la cantidad quedaría negativa o por debajo de lo reservado.
func (l *StockLedger) Adjust(ctx context.Context, in AdjustInput) (res *MovementResult, err error) {
	ctx, span := l.startSpan(ctx, "Adjust", keyAttrs(in.ProductID, in.WarehouseID, in.Delta)...)
	defer func() { l.finish(span, "adjust", err) }()

	if in.ProductID == "" || in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: product_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	if in.Delta == 0 {
		// Un ajuste en cero sería una entrada de auditoría sin significado.
		return nil, fmt.Errorf("%w: el delta no puede ser cero", domain.ErrInvalidAdjustment)
	}
	delta := in.Delta
	return l.applyMovement(ctx, movement{
		op:        "adjust",
		key:       entity.InventoryKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID},
		txType:    entity.TransactionTypeAdjustment,
		delta:     delta,
		unitCost:  in.UnitCost,
		userID:    in.UserID,
		reason:    in.Reason,
		reference: in.ReferenceNumber,
		notes:     in.Notes,
		check: func(cur *entity.InventoryRecord) error {
			if !cur.CanAdjust(delta) {
				return &domain.InvalidAdjustmentError{Quantity: cur.Quantity, Reserved: cur.ReservedQuantity, Delta: delta}
			}
			return nil
		},
	})
}

// StockIn entrada de mercancía (delta > 0). Con UnitCost recalcula el costo promedio ponderado.
func (l *StockLedger) StockIn(ctx context.Context, in StockInput) (res *MovementResult, err error) {
	ctx, span := l.startSpan(ctx, "StockIn", keyAttrs(in.ProductID, in.WarehouseID, in.Quantity)...)
	defer func() { l.finish(span, "stock_in", err) }()

	if err := validateStockInput(in); err != nil {
		return nil, err
	}
	qty := in.Quantity
	return l.applyMovement(ctx, movement{
		op:        "stock_in",
		key:       entity.InventoryKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID},
		txType:    entity.TransactionTypeStockIn,
		delta:     qty,
		unitCost:  in.UnitCost,
		userID:    in.UserID,
		reason:    in.Reason,
		reference: in.ReferenceNumber,
		notes:     in.Notes,
		check: func(cur *entity.InventoryRecord) error {
			if !cur.CanAdjust(qty) {
				return &domain.InvalidAdjustmentError{Quantity: cur.Quantity, Reserved: cur.ReservedQuantity, Delta: qty}
			}
			return nil
		},
	})
}

// StockOut salida de mercancía (delta < 0). Se valida contra lo disponible, no contra la existencia,
// para no vender stock comprometido en una reserva. Registra el costo unitario (el recibido o el promedio).
func (l *StockLedger) StockOut(ctx context.Context, in StockInput) (res *MovementResult, err error) {
	ctx, span := l.startSpan(ctx, "StockOut", keyAttrs(in.ProductID, in.WarehouseID, in.Quantity)...)
	defer func() { l.finish(span, "stock_out", err) }()

	if err := validateStockInput(in); err != nil {
		return nil, err
	}
	qty := in.Quantity
	return l.applyMovement(ctx, movement{
		op:        "stock_out",
		key:       entity.InventoryKey{ProductID: in.ProductID, WarehouseID: in.WarehouseID},
		txType:    entity.TransactionTypeStockOut,
		delta:     -qty,
		unitCost:  in.UnitCost,
		userID:    in.UserID,
		reason:    in.Reason,
		reference: in.ReferenceNumber,
		notes:     in.Notes,
		check: func(cur *entity.InventoryRecord) error {
			if !cur.CanTransferOut(qty) {
				return &domain.InsufficientStockError{Available: cur.AvailableQuantity(), Requested: qty}
			}
			return nil
		},
	})
}

func validateStockInput(in StockInput) error {
	if in.ProductID == "" || in.WarehouseID == "" {
		return fmt.Errorf("%w: product_id y warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// applyMovement lee o crea el registro, valida, calcula el estado nuevo y confirma
// registro + transacción en un solo commit.
func (l *StockLedger) applyMovement(ctx context.Context, m movement) (*MovementResult, error) {
	if err := l.requireExists(ctx, m.key.ProductID, m.userID, m.key.WarehouseID); err != nil {
		return nil, err
	}

	var next *entity.InventoryRecord
	var tx *entity.TransactionRecord
	err := l.execute(ctx, m.op, func(ctx context.Context) ([]repository.Write, error) {
		cur, err := l.getOrCreate(ctx, m.key)
		if err != nil {
			return nil, err
		}
		if err := m.check(cur); err != nil {
			return nil, err
		}

		now := l.cfg.Now()
		next = cur.Clone()
		next.Quantity += m.delta
		next.UpdatedAt = now

		unitCost := m.unitCost
		if m.delta > 0 && unitCost != nil {
			next.AverageCost = costing.CostCalculator(cur.Quantity, cur.AverageCost, m.delta, *unitCost)
		}
		if m.txType == entity.TransactionTypeStockOut && unitCost == nil {
			avg := cur.AverageCost
			unitCost = &avg
		}

		tx, err = entity.NewTransactionRecord(entity.TransactionParams{
			Key:              m.key,
			UserID:           m.userID,
			Type:             m.txType,
			PreviousQuantity: cur.Quantity,
			NewQuantity:      next.Quantity,
			UnitCost:         unitCost,
			Reason:           m.reason,
			ReferenceNumber:  m.reference,
			Notes:            m.notes,
			Timestamp:        now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return []repository.Write{
			repository.InventoryWrite(next, cur.Version),
			repository.TransactionWrite(tx),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Str("op", m.op).
		Str("product_id", m.key.ProductID).
		Str("warehouse_id", m.key.WarehouseID).
		Int64("delta", m.delta).
		Int64("quantity", next.Quantity).
		Int64("transaction_id", tx.ID).
		Msg("movimiento registrado")
	return &MovementResult{StockLevel: levelOf(next), TransactionID: tx.ID}, nil
}

func keyAttrs(productID, warehouseID string, qty int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("inventory.product_id", productID),
		attribute.String("inventory.warehouse_id", warehouseID),
		attribute.Int64("inventory.quantity", qty),
	}
}
