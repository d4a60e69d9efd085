package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// AdjustInput ajuste con delta firmado (≠ 0). UnitCost opcional: en deltas positivos recalcula el costo promedio.
type AdjustInput struct {
	ProductID       string
	WarehouseID     string
	Delta           int64
	UnitCost        *decimal.Decimal
	UserID          string
	Reason          string
	ReferenceNumber string
	Notes           string
}

// StockInput entrada o salida de mercancía. Quantity siempre positiva; el signo lo da la operación.
type StockInput struct {
	ProductID       string
	WarehouseID     string
	Quantity        int64
	UnitCost        *decimal.Decimal
	UserID          string
	Reason          string
	ReferenceNumber string
	Notes           string
}

// ReservationInput reserva o liberación de cantidad reservada.
type ReservationInput struct {
	ProductID       string
	WarehouseID     string
	Quantity        int64
	UserID          string
	Reason          string
	ReferenceNumber string
}

// TransferInput traslado entre bodegas del mismo producto.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        int64
	UserID          string
	Reason          string
	ReferenceNumber string // compartido por las dos transacciones; se genera si viene vacío
	Notes           string
}

// StockLevel cantidades de un registro después de la operación.
type StockLevel struct {
	ProductID         string
	WarehouseID       string
	Quantity          int64
	ReservedQuantity  int64
	AvailableQuantity int64
	AverageCost       decimal.Decimal
}

func levelOf(rec *entity.InventoryRecord) StockLevel {
	return StockLevel{
		ProductID:         rec.ProductID,
		WarehouseID:       rec.WarehouseID,
		Quantity:          rec.Quantity,
		ReservedQuantity:  rec.ReservedQuantity,
		AvailableQuantity: rec.AvailableQuantity(),
		AverageCost:       rec.AverageCost,
	}
}

// MovementResult resultado de Adjust, StockIn y StockOut.
type MovementResult struct {
	StockLevel
	TransactionID int64
}

// ReservationResult resultado de Reserve y ReleaseReservation (sin transacción del libro).
type ReservationResult struct {
	StockLevel
}

// TransferResult resultado del traslado: ambos registros y ambas transacciones.
type TransferResult struct {
	ReferenceNumber  string
	Source           StockLevel
	Destination      StockLevel
	OutTransactionID int64
	InTransactionID  int64
}
