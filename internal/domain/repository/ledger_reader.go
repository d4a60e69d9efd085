package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionFilter criterios para listar el libro. Los campos vacíos no filtran.
type TransactionFilter struct {
	ProductID       string
	WarehouseID     string
	ReferenceNumber string
	Limit           int
	Offset          int
}

// LedgerReader puerto de lectura para reportes y consultas; nunca escribe.
type LedgerReader interface {
	GetInventory(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*entity.TransactionRecord, error)
}
