package entity_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func record(qty, reserved int64) *entity.InventoryRecord {
	return &entity.InventoryRecord{ProductID: "p", WarehouseID: "w", Quantity: qty, ReservedQuantity: reserved, IsActive: true}
}

func TestInventoryRecord_AvailableQuantity(t *testing.T) {
	assert.Equal(t, int64(80), record(100, 20).AvailableQuantity())
	assert.Equal(t, int64(0), record(5, 5).AvailableQuantity())
}

func TestInventoryRecord_CanAdjust(t *testing.T) {
	r := record(10, 5)
	assert.True(t, r.CanAdjust(3))
	assert.True(t, r.CanAdjust(-5), "puede bajar hasta lo reservado")
	assert.False(t, r.CanAdjust(-6), "no puede quedar por debajo de lo reservado")
	assert.False(t, record(3, 0).CanAdjust(-4), "no puede quedar negativo")
	assert.False(t, record(math.MaxInt64-1, 0).CanAdjust(5), "desborde de int64")
	assert.True(t, record(math.MaxInt64-1, 0).CanAdjust(1))
}

func TestInventoryRecord_CanReserveYCanTransferOut(t *testing.T) {
	r := record(100, 70)
	assert.True(t, r.CanReserve(30))
	assert.False(t, r.CanReserve(31))
	assert.False(t, r.CanReserve(0))
	assert.False(t, r.CanReserve(-1))
	assert.Equal(t, r.CanReserve(30), r.CanTransferOut(30))
	assert.Equal(t, r.CanReserve(31), r.CanTransferOut(31))
}

func TestInventoryRecord_CanRelease(t *testing.T) {
	r := record(10, 4)
	assert.True(t, r.CanRelease(4))
	assert.False(t, r.CanRelease(5))
	assert.False(t, r.CanRelease(0))
}

func TestInventoryRecord_CheckInvariants(t *testing.T) {
	assert.True(t, record(0, 0).CheckInvariants())
	assert.True(t, record(5, 5).CheckInvariants())
	assert.False(t, record(-1, 0).CheckInvariants())
	assert.False(t, record(5, -1).CheckInvariants())
	assert.False(t, record(5, 6).CheckInvariants())
}

func TestNewInventoryRecord_IniciaEnCero(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := entity.NewInventoryRecord(entity.InventoryKey{ProductID: "p1", WarehouseID: "w1"}, now)
	assert.Equal(t, int64(0), r.Quantity)
	assert.Equal(t, int64(0), r.ReservedQuantity)
	assert.Equal(t, int64(0), r.Version)
	assert.True(t, r.IsActive)
	assert.True(t, r.AverageCost.IsZero())
	assert.Equal(t, now, r.CreatedAt)
}

func TestInventoryRecord_CloneEsIndependiente(t *testing.T) {
	r := record(10, 2)
	c := r.Clone()
	c.Quantity = 99
	assert.Equal(t, int64(10), r.Quantity)
}

func TestInventoryKey_Less(t *testing.T) {
	a := entity.InventoryKey{ProductID: "p1", WarehouseID: "w2"}
	b := entity.InventoryKey{ProductID: "p1", WarehouseID: "w1"}
	c := entity.InventoryKey{ProductID: "p0", WarehouseID: "w9"}
	assert.True(t, b.Less(a))
	assert.False(t, a.Less(b))
	assert.True(t, c.Less(b))
	assert.False(t, a.Less(a))
}

func TestNewTransactionRecord_Balanceado(t *testing.T) {
	cost := decimal.NewFromInt(3)
	tx, err := entity.NewTransactionRecord(entity.TransactionParams{
		Key:              entity.InventoryKey{ProductID: "p", WarehouseID: "w"},
		UserID:           "u",
		Type:             entity.TransactionTypeStockOut,
		PreviousQuantity: 10,
		NewQuantity:      4,
		UnitCost:         &cost,
		ReferenceNumber:  "REF-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-6), tx.QuantityChanged)
	assert.True(t, tx.Balanced())
	assert.True(t, tx.TotalCost().Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "REF-1", tx.ReferenceNumber)
}

func TestNewTransactionRecord_Rechazos(t *testing.T) {
	key := entity.InventoryKey{ProductID: "p", WarehouseID: "w"}

	_, err := entity.NewTransactionRecord(entity.TransactionParams{Key: key, Type: entity.TransactionTypeAdjustment, PreviousQuantity: 5, NewQuantity: 5})
	assert.Error(t, err, "un cambio en cero no es una entrada válida")

	_, err = entity.NewTransactionRecord(entity.TransactionParams{Key: key, Type: "TRANSFER", PreviousQuantity: 0, NewQuantity: 1})
	assert.Error(t, err, "tipo desconocido")

	_, err = entity.NewTransactionRecord(entity.TransactionParams{Key: key, Type: entity.TransactionTypeStockIn, PreviousQuantity: 5, NewQuantity: 1})
	assert.Error(t, err, "STOCK_IN no puede disminuir")

	_, err = entity.NewTransactionRecord(entity.TransactionParams{Key: key, Type: entity.TransactionTypeStockOut, PreviousQuantity: 1, NewQuantity: 5})
	assert.Error(t, err, "STOCK_OUT no puede aumentar")
}

func TestTransactionRecord_TotalCostSinCosto(t *testing.T) {
	tx := &entity.TransactionRecord{QuantityChanged: 5}
	assert.True(t, tx.TotalCost().IsZero())
}
