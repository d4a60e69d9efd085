package postgres

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ExistenceValidator = (*ExistenceValidator)(nil)

// ExistenceValidator consulta los datos maestros (products, warehouses, users).
type ExistenceValidator struct {
	q Querier
}

// NewExistenceValidator construye el validador. Pasar pool o tx (Querier).
func NewExistenceValidator(q Querier) *ExistenceValidator {
	return &ExistenceValidator{q: q}
}

func (v *ExistenceValidator) ProductExists(ctx context.Context, id string) (bool, error) {
	return v.exists(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id, "check product")
}

func (v *ExistenceValidator) WarehouseExists(ctx context.Context, id string) (bool, error) {
	return v.exists(ctx, `SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1)`, id, "check warehouse")
}

func (v *ExistenceValidator) UserExists(ctx context.Context, id string) (bool, error) {
	return v.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id, "check user")
}

func (v *ExistenceValidator) exists(ctx context.Context, query, id, what string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var ok bool
	if err := v.q.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, classify(err, what)
	}
	return ok, nil
}
