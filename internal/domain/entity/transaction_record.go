package entity

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción del libro.
const (
	TransactionTypeStockIn    = "STOCK_IN"   // entrada
	TransactionTypeStockOut   = "STOCK_OUT"  // salida
	TransactionTypeAdjustment = "ADJUSTMENT" // ajuste
)

var (
	errUnknownTransactionType = errors.New("tipo de transacción desconocido")
	errZeroChange             = errors.New("la transacción no cambia la cantidad")
	errUnbalanced             = errors.New("new_quantity debe ser previous_quantity + quantity_changed")
)

// TransactionRecord entrada inmutable del libro; documenta un cambio de existencia en un registro.
type TransactionRecord struct {
	ID               int64 // asignado por el almacén al confirmar
	ProductID        string
	WarehouseID      string
	UserID           string
	Type             string
	QuantityChanged  int64 // positivo aumenta, negativo disminuye
	PreviousQuantity int64
	NewQuantity      int64
	UnitCost         *decimal.Decimal
	Reason           string
	ReferenceNumber  string
	Notes            string
	Timestamp        time.Time
}

// TransactionParams datos para construir un TransactionRecord.
type TransactionParams struct {
	Key              InventoryKey
	UserID           string
	Type             string
	PreviousQuantity int64
	NewQuantity      int64
	UnitCost         *decimal.Decimal
	Reason           string
	ReferenceNumber  string
	Notes            string
	Timestamp        time.Time
}

// NewTransactionRecord construye la entrada del libro. QuantityChanged se deriva de previous/new,
// por lo que new = previous + changed se cumple por construcción.
func NewTransactionRecord(p TransactionParams) (*TransactionRecord, error) {
	switch p.Type {
	case TransactionTypeStockIn, TransactionTypeStockOut, TransactionTypeAdjustment:
	default:
		return nil, errUnknownTransactionType
	}
	changed := p.NewQuantity - p.PreviousQuantity
	if changed == 0 {
		return nil, errZeroChange
	}
	if p.Type == TransactionTypeStockIn && changed < 0 || p.Type == TransactionTypeStockOut && changed > 0 {
		return nil, errUnbalanced
	}
	return &TransactionRecord{
		ProductID:        p.Key.ProductID,
		WarehouseID:      p.Key.WarehouseID,
		UserID:           p.UserID,
		Type:             p.Type,
		QuantityChanged:  changed,
		PreviousQuantity: p.PreviousQuantity,
		NewQuantity:      p.NewQuantity,
		UnitCost:         p.UnitCost,
		Reason:           p.Reason,
		ReferenceNumber:  p.ReferenceNumber,
		Notes:            p.Notes,
		Timestamp:        p.Timestamp,
	}, nil
}

// Balanced verifica new = previous + changed.
func (t *TransactionRecord) Balanced() bool {
	return t.NewQuantity == t.PreviousQuantity+t.QuantityChanged
}

// TotalCost valor absoluto del movimiento (|changed| * costo unitario); cero si no hay costo.
func (t *TransactionRecord) TotalCost() decimal.Decimal {
	if t.UnitCost == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(t.QuantityChanged).Abs().Mul(*t.UnitCost)
}
