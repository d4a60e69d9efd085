package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// version se sobreescribe con -ldflags "-X main.version=..."
var version = "dev"

// backend agrupa lo que el libro y el router necesitan del almacén elegido.
type backend struct {
	store      repository.InventoryStore
	reader     repository.LedgerReader
	validators repository.ExistenceValidator
	health     func(c *fiber.Ctx) error
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Ledger.Store).
		Str("version", version).
		Msg("iniciando aplicación")

	ctx := context.Background()

	_, shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn().Err(err).Msg("cerrar trazas")
		}
	}()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer be.close()

	ledger := inventory.NewStockLedger(be.store, be.validators, log, inventory.Config{
		MaxAttempts:  cfg.Ledger.MaxAttempts,
		StoreTimeout: cfg.Ledger.StoreTimeout,
		RetryBackoff: cfg.Ledger.RetryBackoff,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "Inventario Ledger API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledger,
		Reader:    be.reader,
		Log:       log,
		JWTSecret: cfg.JWT.Secret,
		Health:    be.health,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("apagando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown HTTP")
	}
	log.Info().Msg("servidor detenido")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Ledger.Store == config.StoreMemory {
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar y todo id no vacío se considera existente")
		store := memory.NewInventoryStore()
		return &backend{
			store:      store,
			reader:     store,
			validators: memory.NewPermissiveCatalog(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema aplicado")
	}
	return &backend{
		store:      postgres.NewInventoryStore(pool),
		reader:     postgres.NewTransactionRepository(pool),
		validators: postgres.NewExistenceValidator(pool),
		health: func(c *fiber.Ctx) error {
			pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			return pool.Ping(pingCtx)
		},
		close: pool.Close,
	}, nil
}
