// Package memory implementa los puertos del libro de stock en memoria.
// Se usa en pruebas y en LEDGER_STORE=memory para desarrollo local.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.InventoryStore = (*InventoryStore)(nil)
	_ repository.LedgerReader   = (*InventoryStore)(nil)
)

var errConstraint = errors.New("violación de restricción")

// InventoryStore almacén en memoria con sello de versión por registro.
// Un único mutex serializa los commits, equivalente a bloquear todas las filas en orden de llave.
type InventoryStore struct {
	mu      sync.RWMutex
	records map[entity.InventoryKey]*entity.InventoryRecord
	txs     []*entity.TransactionRecord
	nextID  int64
}

// NewInventoryStore construye un almacén vacío.
func NewInventoryStore() *InventoryStore {
	return &InventoryStore{records: make(map[entity.InventoryKey]*entity.InventoryRecord)}
}

// Seed inserta un registro tal cual (versión 1 si viene en cero). Solo para pruebas y arranque.
func (s *InventoryStore) Seed(rec *entity.InventoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := rec.Clone()
	if c.Version == 0 {
		c.Version = 1
	}
	s.records[c.Key()] = c
}

// Get devuelve una copia del registro o (nil, nil) si no existe.
func (s *InventoryStore) Get(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// Commit valida todas las versiones esperadas y luego aplica todos los cambios, o ninguno.
func (s *InventoryStore) Commit(ctx context.Context, writes []repository.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	inv := make([]repository.Write, 0, len(writes))
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

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Validar sin tocar estado
	seen := make(map[entity.InventoryKey]bool, len(inv))
	for _, w := range inv {
		key := w.Inventory.Key()
		if seen[key] {
			return fmt.Errorf("%w: llave duplicada en el commit %v", errConstraint, key)
		}
		seen[key] = true
		if !w.Inventory.CheckInvariants() {
			return fmt.Errorf("%w: cantidades inválidas para %v", errConstraint, key)
		}
		var current int64
		if rec, ok := s.records[key]; ok {
			current = rec.Version
		}
		if current != w.ExpectedVersion {
			return fmt.Errorf("%w: %v versión %d, esperada %d", domain.ErrConcurrencyConflict, key, current, w.ExpectedVersion)
		}
	}
	for _, tx := range txs {
		if !tx.Balanced() {
			return fmt.Errorf("%w: transacción desbalanceada", errConstraint)
		}
	}

	// 2. Aplicar
	for _, w := range inv {
		w.Inventory.Version = w.ExpectedVersion + 1
		s.records[w.Inventory.Key()] = w.Inventory.Clone()
	}
	for _, tx := range txs {
		s.nextID++
		tx.ID = s.nextID
		c := *tx
		s.txs = append(s.txs, &c)
	}
	return nil
}

// GetInventory lectura de un registro (misma semántica que Get).
func (s *InventoryStore) GetInventory(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	return s.Get(ctx, key)
}

// ListTransactions lista el libro del más reciente al más antiguo.
func (s *InventoryStore) ListTransactions(ctx context.Context, f repository.TransactionFilter) ([]*entity.TransactionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.TransactionRecord
	for i := len(s.txs) - 1; i >= 0; i-- {
		tx := s.txs[i]
		if f.ProductID != "" && tx.ProductID != f.ProductID {
			continue
		}
		if f.WarehouseID != "" && tx.WarehouseID != f.WarehouseID {
			continue
		}
		if f.ReferenceNumber != "" && tx.ReferenceNumber != f.ReferenceNumber {
			continue
		}
		c := *tx
		list = append(list, &c)
	}
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && len(list) > f.Limit {
		list = list[:f.Limit]
	}
	return list, nil
}

// Records copia de todos los registros, para pruebas de invariantes.
func (s *InventoryStore) Records() []*entity.InventoryRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.InventoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		list = append(list, rec.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Key().Less(list[j].Key()) })
	return list
}

// Transactions copia del libro completo en orden de alta.
func (s *InventoryStore) Transactions() []*entity.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.TransactionRecord, len(s.txs))
	for i, tx := range s.txs {
		c := *tx
		list[i] = &c
	}
	return list
}
