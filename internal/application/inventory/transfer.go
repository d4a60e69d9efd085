package inventory

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	costing "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Transfer mueve existencia entre dos bodegas del mismo producto.
// Resta en origen y suma en destino; guarda dos transacciones (STOCK_OUT y STOCK_IN) con la misma
// referencia. Los dos registros y las dos transacciones van en un único commit.
func (l *StockLedger) Transfer(ctx context.Context, in TransferInput) (res *TransferResult, err error) {
	ctx, span := l.startSpan(ctx, "Transfer",
		attribute.String("inventory.product_id", in.ProductID),
		attribute.String("inventory.from_warehouse_id", in.FromWarehouseID),
		attribute.String("inventory.to_warehouse_id", in.ToWarehouseID),
		attribute.Int64("inventory.quantity", in.Quantity),
	)
	defer func() { l.finish(span, "transfer", err) }()

	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" {
		return nil, fmt.Errorf("%w: product_id, from_warehouse_id y to_warehouse_id son requeridos", domain.ErrInvalidInput)
	}
	// 1. Origen y destino distintos, cantidad positiva
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, &domain.InvalidTransferError{Reason: "origen y destino son la misma bodega"}
	}
	if in.Quantity <= 0 {
		return nil, &domain.InvalidTransferError{Reason: "la cantidad debe ser positiva"}
	}
	if err := l.requireExists(ctx, in.ProductID, in.UserID, in.FromWarehouseID, in.ToWarehouseID); err != nil {
		return nil, err
	}

	reference := in.ReferenceNumber
	if reference == "" {
		reference = l.cfg.NewReference()
	}
	srcKey := entity.InventoryKey{ProductID: in.ProductID, WarehouseID: in.FromWarehouseID}
	dstKey := entity.InventoryKey{ProductID: in.ProductID, WarehouseID: in.ToWarehouseID}

	var src, dst *entity.InventoryRecord
	var outTx, inTx *entity.TransactionRecord
	err = l.execute(ctx, "transfer", func(ctx context.Context) ([]repository.Write, error) {
		// 2. Origen debe existir
		srcCur, err := l.get(ctx, srcKey)
		if err != nil {
			return nil, err
		}
		if srcCur == nil {
			return nil, &domain.RecordNotFoundError{ProductID: srcKey.ProductID, WarehouseID: srcKey.WarehouseID}
		}
		// 3. Disponible en origen, no solo existencia
		if !srcCur.CanTransferOut(in.Quantity) {
			return nil, &domain.InsufficientStockError{Available: srcCur.AvailableQuantity(), Requested: in.Quantity}
		}
		// 4. Destino existente o implícito en cero
		dstCur, err := l.getOrCreate(ctx, dstKey)
		if err != nil {
			return nil, err
		}
		if !dstCur.CanAdjust(in.Quantity) {
			return nil, &domain.InvalidTransferError{Reason: fmt.Sprintf("la cantidad en destino (%d) no admite %d unidades más", dstCur.Quantity, in.Quantity)}
		}

		// 5. Resta en origen, suma en destino; el destino promedia con el costo del origen
		now := l.cfg.Now()
		src = srcCur.Clone()
		src.Quantity -= in.Quantity
		src.UpdatedAt = now
		dst = dstCur.Clone()
		dst.Quantity += in.Quantity
		dst.AverageCost = costing.CostCalculator(dstCur.Quantity, dstCur.AverageCost, in.Quantity, srcCur.AverageCost)
		dst.UpdatedAt = now

		// 6. Dos transacciones con la misma referencia
		unitCost := srcCur.AverageCost
		outTx, err = entity.NewTransactionRecord(entity.TransactionParams{
			Key: srcKey, UserID: in.UserID, Type: entity.TransactionTypeStockOut,
			PreviousQuantity: srcCur.Quantity, NewQuantity: src.Quantity, UnitCost: &unitCost,
			Reason: in.Reason, ReferenceNumber: reference, Notes: in.Notes, Timestamp: now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		inTx, err = entity.NewTransactionRecord(entity.TransactionParams{
			Key: dstKey, UserID: in.UserID, Type: entity.TransactionTypeStockIn,
			PreviousQuantity: dstCur.Quantity, NewQuantity: dst.Quantity, UnitCost: &unitCost,
			Reason: in.Reason, ReferenceNumber: reference, Notes: in.Notes, Timestamp: now,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		// 7. Cuatro escrituras, registros en orden de llave
		first, second := repository.InventoryWrite(src, srcCur.Version), repository.InventoryWrite(dst, dstCur.Version)
		if dstKey.Less(srcKey) {
			first, second = second, first
		}
		return []repository.Write{first, second, repository.TransactionWrite(outTx), repository.TransactionWrite(inTx)}, nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Str("op", "transfer").
		Str("product_id", in.ProductID).
		Str("from_warehouse_id", in.FromWarehouseID).
		Str("to_warehouse_id", in.ToWarehouseID).
		Int64("quantity", in.Quantity).
		Str("reference", reference).
		Int64("out_transaction_id", outTx.ID).
		Int64("in_transaction_id", inTx.ID).
		Msg("traslado registrado")
	return &TransferResult{
		ReferenceNumber:  reference,
		Source:           levelOf(src),
		Destination:      levelOf(dst),
		OutTransactionID: outTx.ID,
		InTransactionID:  inTx.ID,
	}, nil
}
