package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const (
	prodP = "P"
	whA   = "A"
	whB   = "B"
	actor = "u-1"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// ─── Almacén con fallas inyectadas ───────────────────────────────────────────

type faultyStore struct {
	*memory.InventoryStore

	mu           sync.Mutex
	getErrs      []error
	commitErrs   []error
	gets         int
	commits      int
	blockGet     bool
	onGet        func(ctx context.Context)
	beforeCommit func(ctx context.Context)
}

var _ repository.InventoryStore = (*faultyStore)(nil)

func newFaultyStore() *faultyStore {
	return &faultyStore{InventoryStore: memory.NewInventoryStore()}
}

func (s *faultyStore) Get(ctx context.Context, key entity.InventoryKey) (*entity.InventoryRecord, error) {
	s.mu.Lock()
	s.gets++
	var err error
	if len(s.getErrs) > 0 {
		err, s.getErrs = s.getErrs[0], s.getErrs[1:]
	}
	block, hook := s.blockGet, s.onGet
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	rec, err := s.InventoryStore.Get(ctx, key)
	if hook != nil {
		hook(ctx)
	}
	return rec, err
}

func (s *faultyStore) Commit(ctx context.Context, writes []repository.Write) error {
	s.mu.Lock()
	s.commits++
	var err error
	if len(s.commitErrs) > 0 {
		err, s.commitErrs = s.commitErrs[0], s.commitErrs[1:]
	}
	hook := s.beforeCommit
	s.beforeCommit = nil
	s.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return err
	}
	return s.InventoryStore.Commit(ctx, writes)
}

func (s *faultyStore) counts() (gets, commits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.commits
}

// ─── Armado ──────────────────────────────────────────────────────────────────

func catalog() *memory.Catalog {
	c := memory.NewCatalog()
	c.AddProducts(prodP)
	c.AddWarehouses(whA, whB)
	c.AddUsers(actor)
	return c
}

func newLedger(t *testing.T, store repository.InventoryStore, cfg inventory.Config) *inventory.StockLedger {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return fixedNow }
	}
	if cfg.NewReference == nil {
		cfg.NewReference = func() string { return "TRF-AUTO" }
	}
	return inventory.NewStockLedger(store, catalog(), logger.Nop(), cfg)
}

func seed(store interface{ Seed(*entity.InventoryRecord) }, warehouse string, qty, reserved int64, avg string) {
	store.Seed(&entity.InventoryRecord{
		ProductID:        prodP,
		WarehouseID:      warehouse,
		Quantity:         qty,
		ReservedQuantity: reserved,
		AverageCost:      decimal.RequireFromString(avg),
		IsActive:         true,
		CreatedAt:        fixedNow,
		UpdatedAt:        fixedNow,
	})
}

func current(t *testing.T, store repository.InventoryStore, warehouse string) *entity.InventoryRecord {
	t.Helper()
	rec, err := store.Get(context.Background(), entity.InventoryKey{ProductID: prodP, WarehouseID: warehouse})
	if err != nil {
		t.Fatalf("leer %s: %v", warehouse, err)
	}
	return rec
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// flakyCatalog devuelve los errores encolados en ProductExists antes de delegar al catálogo.
type flakyCatalog struct {
	*memory.Catalog

	mu    sync.Mutex
	errs  []error
	calls int
}

func (c *flakyCatalog) ProductExists(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	c.calls++
	var err error
	if len(c.errs) > 0 {
		err, c.errs = c.errs[0], c.errs[1:]
	}
	c.mu.Unlock()
	if err != nil {
		return false, err
	}
	return c.Catalog.ProductExists(ctx, id)
}
