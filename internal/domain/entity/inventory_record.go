package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryKey identifica un registro de inventario: par (producto, bodega).
type InventoryKey struct {
	ProductID   string
	WarehouseID string
}

// Less define el orden total sobre las llaves; los bloqueos de fila se toman en este orden.
func (k InventoryKey) Less(other InventoryKey) bool {
	if k.ProductID != other.ProductID {
		return k.ProductID < other.ProductID
	}
	return k.WarehouseID < other.WarehouseID
}

// InventoryRecord estado de cantidades de un producto en una bodega.
// Solo StockLedger cambia sus cantidades; el resto de la aplicación únicamente lee.
type InventoryRecord struct {
	ProductID        string
	WarehouseID      string
	Quantity         int64           // existencia física (on-hand)
	ReservedQuantity int64           // comprometido para pedidos pendientes
	AverageCost      decimal.Decimal // costo promedio ponderado
	IsActive         bool
	Version          int64 // sello para concurrencia optimista; 0 = nunca persistido
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewInventoryRecord crea el registro implícito en cero para un par sin inventario.
func NewInventoryRecord(key InventoryKey, now time.Time) *InventoryRecord {
	return &InventoryRecord{
		ProductID:   key.ProductID,
		WarehouseID: key.WarehouseID,
		AverageCost: decimal.Zero,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Key devuelve la llave compuesta del registro.
func (r *InventoryRecord) Key() InventoryKey {
	return InventoryKey{ProductID: r.ProductID, WarehouseID: r.WarehouseID}
}

// Clone devuelve una copia independiente; el ledger muta copias, nunca el snapshot leído.
func (r *InventoryRecord) Clone() *InventoryRecord {
	c := *r
	return &c
}

// AvailableQuantity existencia menos reservado. Siempre se recalcula.
func (r *InventoryRecord) AvailableQuantity() int64 {
	return r.Quantity - r.ReservedQuantity
}

// CanAdjust true si quantity+delta no queda negativo ni por debajo de lo reservado.
func (r *InventoryRecord) CanAdjust(delta int64) bool {
	next := r.Quantity + delta
	if (delta > 0 && next < r.Quantity) || (delta < 0 && next > r.Quantity) {
		return false // desborde de int64
	}
	return next >= 0 && next >= r.ReservedQuantity
}

// CanReserve true si amount es positivo y no supera lo disponible.
func (r *InventoryRecord) CanReserve(amount int64) bool {
	return amount > 0 && amount <= r.AvailableQuantity()
}

// CanRelease true si amount es positivo y no supera lo reservado.
func (r *InventoryRecord) CanRelease(amount int64) bool {
	return amount > 0 && amount <= r.ReservedQuantity
}

// CanTransferOut misma prueba que CanReserve: la salida exige stock disponible, no solo existencia.
func (r *InventoryRecord) CanTransferOut(amount int64) bool {
	return r.CanReserve(amount)
}

// CheckInvariants true si quantity ≥ 0, reserved ≥ 0 y reserved ≤ quantity.
func (r *InventoryRecord) CheckInvariants() bool {
	return r.Quantity >= 0 && r.ReservedQuantity >= 0 && r.ReservedQuantity <= r.Quantity
}
