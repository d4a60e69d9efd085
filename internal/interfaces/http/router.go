package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.StockLedger
	Reader    repository.LedgerReader
	Log       *logger.Logger
	JWTSecret string
	// Health revisa el almacén; nil = siempre sano.
	Health func(c *fiber.Ctx) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Health (público)
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	inv := api.Group("/inventory")
	h := NewInventoryHandler(deps.Ledger, deps.Reader, deps.Log)

	// Cambios de existencia: solo admin y bodeguero
	stock := RequireRole(RoleAdmin, RoleBodeguero)
	inv.Post("/adjustments", stock, h.Adjust)
	inv.Post("/stock-in", stock, h.StockIn)
	inv.Post("/stock-out", stock, h.StockOut)
	inv.Post("/transfers", stock, h.Transfer)

	// Reservas: también vendedor
	sales := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	inv.Post("/reservations", sales, h.Reserve)
	inv.Post("/reservations/release", sales, h.Release)

	// Lecturas: cualquier usuario autenticado
	inv.Get("/stock/:product_id/:warehouse_id", h.GetStock)
	inv.Get("/transactions", h.ListTransactions)
}
