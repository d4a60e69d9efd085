package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.LedgerReader = (*TransactionRepo)(nil)

// TransactionRepo lecturas del libro y de los registros (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador de lectura. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// GetInventory obtiene el registro de un producto en una bodega; (nil, nil) si no existe.
func (r *TransactionRepo) GetInventory(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	return getRecord(ctx, r.q, key)
}

// ListTransactions lista el libro del más reciente al más antiguo con filtros opcionales.
func (r *TransactionRepo) ListTransactions(ctx context.Context, f repository.TransactionFilter) ([]*entity.TransactionRecord, error) {
	query := `
		SELECT id, product_id, warehouse_id, COALESCE(user_id, ''), transaction_type, quantity_changed,
			previous_quantity, new_quantity, unit_cost, COALESCE(reason, ''), COALESCE(reference_number, ''),
			COALESCE(notes, ''), created_at
		FROM inventory_transactions WHERE 1 = 1`
	var args []any
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
		pos++
	}
	if f.ReferenceNumber != "" {
		query += fmt.Sprintf(" AND reference_number = $%d", pos)
		args = append(args, f.ReferenceNumber)
		pos++
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, max(f.Offset, 0))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list inventory transactions")
	}
	defer rows.Close()
	var list []*entity.TransactionRecord
	for rows.Next() {
		var t entity.TransactionRecord
		if err := rows.Scan(&t.ID, &t.ProductID, &t.WarehouseID, &t.UserID, &t.Type, &t.QuantityChanged,
			&t.PreviousQuantity, &t.NewQuantity, &t.UnitCost, &t.Reason, &t.ReferenceNumber,
			&t.Notes, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "list inventory transactions")
	}
	return list, nil
}
