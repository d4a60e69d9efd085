// seed carga datos maestros (productos, bodegas, usuarios) y existencias iniciales
// desde un XML de catálogo hacia PostgreSQL.
//
// Uso: go run ./cmd/seed [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual. Las existencias iniciales
// se registran como entradas del libro y solo para registros que aún no existen,
// de modo que volver a correrlo no duplica cantidades.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

const openingReference = "SEED-OPENING"

func main() {
	path := "catalogo.xml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	cat, err := decodeCatalog(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	opening, err := cat.openingStock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	actor := cat.actor()
	if len(opening) > 0 && actor == "" {
		fmt.Fprintln(os.Stderr, "Existencias sin actor: agregue actor=\"...\" o al menos un usuario")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	md := cat.masterData()
	if err := postgres.SeedMasterData(ctx, postgres.NewTxRunner(pool), md); err != nil {
		log.Fatal().Err(err).Msg("datos maestros")
	}
	log.Info().
		Int("products", len(md.Products)).
		Int("warehouses", len(md.Warehouses)).
		Int("users", len(md.Users)).
		Msg("datos maestros cargados")

	reader := postgres.NewTransactionRepository(pool)
	ledger := inventory.NewStockLedger(postgres.NewInventoryStore(pool), postgres.NewExistenceValidator(pool), log, inventory.Config{
		MaxAttempts:  cfg.Ledger.MaxAttempts,
		StoreTimeout: cfg.Ledger.StoreTimeout,
		RetryBackoff: cfg.Ledger.RetryBackoff,
	})
	loaded, skipped := 0, 0
	for _, s := range opening {
		rec, err := reader.GetInventory(ctx, entity.InventoryKey{ProductID: s.ProductID, WarehouseID: s.WarehouseID})
		if err != nil {
			log.Fatal().Err(err).Msg("leer inventario")
		}
		if rec != nil {
			skipped++
			continue
		}
		_, err = ledger.StockIn(ctx, inventory.StockInput{
			ProductID:       s.ProductID,
			WarehouseID:     s.WarehouseID,
			Quantity:        s.Quantity,
			UnitCost:        s.UnitCost,
			UserID:          actor,
			Reason:          "existencia inicial",
			ReferenceNumber: openingReference,
		})
		if err != nil {
			log.Fatal().Err(err).Str("product_id", s.ProductID).Str("warehouse_id", s.WarehouseID).Msg("existencia inicial")
		}
		loaded++
	}
	log.Info().Int("loaded", loaded).Int("skipped", skipped).Msg("existencias iniciales")

	// Token de desarrollo para probar la API con el actor del catálogo
	if cfg.App.Env == "development" && cfg.JWT.Secret != "" && actor != "" {
		tok, err := jwt.Generate(cfg.JWT.Secret, actor, httpRouter.RoleAdmin, cfg.JWT.Issuer, 60)
		if err != nil {
			log.Fatal().Err(err).Msg("generar token")
		}
		fmt.Printf("Bearer %s\n", tok)
	}
}
