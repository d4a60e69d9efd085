package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Write un cambio dentro de un commit: o un registro de inventario o una transacción del libro.
type Write struct {
	// Inventory upsert del registro, condicionado a que la versión persistida siga siendo ExpectedVersion.
	Inventory *entity.InventoryRecord
	// ExpectedVersion versión leída antes del cambio; 0 = el registro no existía.
	ExpectedVersion int64
	// Transaction entrada nueva del libro (append-only).
	Transaction *entity.TransactionRecord
}

// InventoryWrite construye el cambio de un registro de inventario.
func InventoryWrite(rec *entity.InventoryRecord, expectedVersion int64) Write {
	return Write{Inventory: rec, ExpectedVersion: expectedVersion}
}

// TransactionWrite construye el alta de una transacción del libro.
func TransactionWrite(tx *entity.TransactionRecord) Write {
	return Write{Transaction: tx}
}

// InventoryStore puerto de persistencia del libro de stock.
// Get devuelve (nil, nil) si no hay registro para la llave.
// Commit aplica todos los cambios o ninguno: domain.ErrConcurrencyConflict si alguna versión
// esperada ya no coincide, domain.ErrStoreUnavailable ante fallas transitorias. Al confirmar,
// asigna TransactionRecord.ID y deja en cada InventoryRecord la versión nueva.
// Los bloqueos de fila se adquieren en el orden de entity.InventoryKey.Less.
type InventoryStore interface {
	Get(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error)
	Commit(ctx context.Context, writes []Write) error
}
