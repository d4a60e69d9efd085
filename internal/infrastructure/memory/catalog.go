package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ExistenceValidator = (*Catalog)(nil)

// Catalog validador de existencia en memoria (productos, bodegas, usuarios).
type Catalog struct {
	mu         sync.RWMutex
	permissive bool
	products   map[string]bool
	warehouses map[string]bool
	users      map[string]bool
}

// NewCatalog catálogo vacío; solo existen los ids agregados.
func NewCatalog() *Catalog {
	return &Catalog{
		products:   make(map[string]bool),
		warehouses: make(map[string]bool),
		users:      make(map[string]bool),
	}
}

// NewPermissiveCatalog catálogo donde todo id no vacío existe (modo desarrollo sin datos maestros).
func NewPermissiveCatalog() *Catalog {
	c := NewCatalog()
	c.permissive = true
	return c
}

func (c *Catalog) AddProducts(ids ...string)   { c.add(c.products, ids) }
func (c *Catalog) AddWarehouses(ids ...string) { c.add(c.warehouses, ids) }
func (c *Catalog) AddUsers(ids ...string)      { c.add(c.users, ids) }

func (c *Catalog) add(set map[string]bool, ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		set[id] = true
	}
}

func (c *Catalog) has(ctx context.Context, set map[string]bool, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if id == "" {
		return false, nil
	}
	if c.permissive {
		return true, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return set[id], nil
}

func (c *Catalog) ProductExists(ctx context.Context, id string) (bool, error) {
	return c.has(ctx, c.products, id)
}

func (c *Catalog) WarehouseExists(ctx context.Context, id string) (bool, error) {
	return c.has(ctx, c.warehouses, id)
}

func (c *Catalog) UserExists(ctx context.Context, id string) (bool, error) {
	return c.has(ctx, c.users, id)
}
