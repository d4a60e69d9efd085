package repository

import "context"

// ExistenceValidator verifica datos maestros antes de mutar inventario.
// "No existe" es una precondición fallida, no una violación de invariante.
type ExistenceValidator interface {
	ProductExists(ctx context.Context, id string) (bool, error)
	WarehouseExists(ctx context.Context, id string) (bool, error)
	UserExists(ctx context.Context, id string) (bool, error)
}
