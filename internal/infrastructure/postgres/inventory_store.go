package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryStore = (*InventoryStore)(nil)

const selectRecord = `
	SELECT product_id, warehouse_id, quantity, reserved_quantity, average_cost, is_active, version, created_at, updated_at
	FROM inventory_records WHERE product_id = $1 AND warehouse_id = $2`

// InventoryStore implementación de InventoryStore sobre PostgreSQL.
// Commit abre una transacción y condiciona cada UPDATE a la versión esperada; las filas se
// escriben en orden de llave para que dos traslados opuestos no se bloqueen mutuamente.
type InventoryStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewInventoryStore construye el almacén sobre el pool.
func NewInventoryStore(pool *pgxpool.Pool) *InventoryStore {
	return &InventoryStore{pool: pool, tx: NewTxRunner(pool)}
}

// Get devuelve el registro o (nil, nil) si el par no tiene inventario.
func (s *InventoryStore) Get(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	return getRecord(ctx, s.pool, key)
}

func getRecord(ctx context.Context, q Querier, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	var r entity.InventoryRecord
	err := q.QueryRow(ctx, selectRecord, key.ProductID, key.WarehouseID).Scan(
		&r.ProductID, &r.WarehouseID, &r.Quantity, &r.ReservedQuantity, &r.AverageCost,
		&r.IsActive, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err, "get inventory record")
	}
	return &r, nil
}

// Commit aplica todas las escrituras en una sola transacción, o ninguna.
// Versión esperada 0 es un INSERT (llave duplicada = conflicto); si no, UPDATE ... WHERE version = esperada
// y cero filas afectadas es conflicto. Versiones e ids se asignan en los valores del llamador solo tras el commit.
func (s *InventoryStore) Commit(ctx context.Context, writes []repository.Write) error {
	var inv []repository.Write
	var txs []*entity.TransactionRecord
	for _, w := range writes {
		switch {
		case w.Inventory != nil:
			inv = append(inv, w)
		case w.Transaction != nil:
			txs = append(txs, w.Transaction)
		}
	}
	sort.SliceStable(inv, func(i, j int) bool {
		return inv[i].Inventory.Key().Less(inv[j].Inventory.Key())
	})

	ids := make([]int64, len(txs))
	err := s.tx.Run(ctx, func(q Querier) error {
		for _, w := range inv {
			if err := writeRecord(ctx, q, w); err != nil {
				return err
			}
		}
		for i, tx := range txs {
			id, err := insertTransaction(ctx, q, tx)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, w := range inv {
		w.Inventory.Version = w.ExpectedVersion + 1
	}
	for i, tx := range txs {
		tx.ID = ids[i]
	}
	return nil
}

func writeRecord(ctx context.Context, q Querier, w repository.Write) error {
	r := w.Inventory
	if w.ExpectedVersion == 0 {
		query := `
			INSERT INTO inventory_records (product_id, warehouse_id, quantity, reserved_quantity, average_cost, is_active, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)`
		_, err := q.Exec(ctx, query,
			r.ProductID, r.WarehouseID, r.Quantity, r.ReservedQuantity, r.AverageCost, r.IsActive, r.CreatedAt, r.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s/%s creado por otra operación", domain.ErrConcurrencyConflict, r.ProductID, r.WarehouseID)
			}
			return classify(err, "insert inventory record")
		}
		return nil
	}

	query := `
		UPDATE inventory_records
		SET quantity = $3, reserved_quantity = $4, average_cost = $5, is_active = $6, updated_at = $7, version = version + 1
		WHERE product_id = $1 AND warehouse_id = $2 AND version = $8`
	tag, err := q.Exec(ctx, query,
		r.ProductID, r.WarehouseID, r.Quantity, r.ReservedQuantity, r.AverageCost, r.IsActive, r.UpdatedAt, w.ExpectedVersion,
	)
	if err != nil {
		return classify(err, "update inventory record")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s/%s cambió desde la versión %d", domain.ErrConcurrencyConflict, r.ProductID, r.WarehouseID, w.ExpectedVersion)
	}
	return nil
}

func insertTransaction(ctx context.Context, q Querier, tx *entity.TransactionRecord) (int64, error) {
	query := `
		INSERT INTO inventory_transactions (product_id, warehouse_id, user_id, transaction_type, quantity_changed,
			previous_quantity, new_quantity, unit_cost, reason, reference_number, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var id int64
	err := q.QueryRow(ctx, query,
		tx.ProductID, tx.WarehouseID, nullable(tx.UserID), tx.Type, tx.QuantityChanged,
		tx.PreviousQuantity, tx.NewQuantity, tx.UnitCost, nullable(tx.Reason), nullable(tx.ReferenceNumber),
		nullable(tx.Notes), tx.Timestamp,
	).Scan(&id)
	if err != nil {
		return 0, classify(err, "insert inventory transaction")
	}
	return id, nil
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
