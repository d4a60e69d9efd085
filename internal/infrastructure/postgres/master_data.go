package postgres

import (
	"context"
)

// MasterData datos maestros mínimos que el libro valida antes de mover existencias.
type MasterData struct {
	Products   []Product
	Warehouses []Warehouse
	Users      []User
}

type Product struct {
	ID   string
	SKU  string
	Name string
}

type Warehouse struct {
	ID   string
	Name string
}

type User struct {
	ID    string
	Email string
}

// SeedMasterData inserta o actualiza los datos maestros en una sola transacción.
func SeedMasterData(ctx context.Context, runner *TxRunner, md MasterData) error {
	return runner.Run(ctx, func(q Querier) error {
		for _, p := range md.Products {
			_, err := q.Exec(ctx,
				`INSERT INTO products (id, sku, name) VALUES ($1, $2, $3)
				 ON CONFLICT (id) DO UPDATE SET sku = EXCLUDED.sku, name = EXCLUDED.name`,
				p.ID, nullable(p.SKU), p.Name)
			if err != nil {
				return classify(err, "seed product "+p.ID)
			}
		}
		for _, w := range md.Warehouses {
			_, err := q.Exec(ctx,
				`INSERT INTO warehouses (id, name) VALUES ($1, $2)
				 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
				w.ID, w.Name)
			if err != nil {
				return classify(err, "seed warehouse "+w.ID)
			}
		}
		for _, u := range md.Users {
			_, err := q.Exec(ctx,
				`INSERT INTO users (id, email) VALUES ($1, $2)
				 ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email`,
				u.ID, nullable(u.Email))
			if err != nil {
				return classify(err, "seed user "+u.ID)
			}
		}
		return nil
	})
}
