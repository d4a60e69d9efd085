package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.StockLedger
	reader repository.LedgerReader
	log    *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger, reader repository.LedgerReader, log *logger.Logger) *InventoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InventoryHandler{ledger: ledger, reader: reader, log: log.Named("http")}
}

// Adjust godoc
// @Summary      Ajuste de inventario (delta firmado)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AdjustmentRequest  true  "quantity es el delta, distinto de cero"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.AdjustFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// StockIn godoc
// @Summary      Entrada de mercancía
// @Description  Con unit_cost recalcula el costo promedio ponderado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockMovementRequest  true  "quantity > 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-in [post]
func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.StockInFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// StockOut godoc
// @Summary      Salida de mercancía
// @Description  Se valida contra la cantidad disponible (existencia menos reservado).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.StockMovementRequest  true  "quantity > 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-out [post]
func (h *InventoryHandler) StockOut(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.StockOutFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(res))
}

// Reserve godoc
// @Summary      Reservar cantidad disponible
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReservationRequest  true  "quantity > 0"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.ReserveFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(levelResponse(res.StockLevel))
}

// Release godoc
// @Summary      Liberar cantidad reservada
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ReservationRequest  true  "quantity > 0"
// @Success      200   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.ReleaseFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(levelResponse(res.StockLevel))
}

// Transfer godoc
// @Summary      Traslado entre bodegas
// @Description  Atómico: las dos bodegas y sus dos transacciones se confirman juntas o nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.TransferRequest  true  "reference_number vacío genera uno"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.ledger.TransferFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		ReferenceNumber:  res.ReferenceNumber,
		Source:           levelResponse(res.Source),
		Destination:      levelResponse(res.Destination),
		OutTransactionID: res.OutTransactionID,
		InTransactionID:  res.InTransactionID,
	})
}

// GetStock godoc
// @Summary      Cantidades de un producto en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    path  string  true  "Producto"
// @Param        warehouse_id  path  string  true  "Bodega"
// @Success      200  {object}  dto.StockLevelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product_id}/{warehouse_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	key := entity.InventoryKey{ProductID: c.Params("product_id"), WarehouseID: c.Params("warehouse_id")}
	rec, err := h.reader.GetInventory(c.UserContext(), key)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if rec == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "RECORD_NOT_FOUND", Message: "sin inventario para el producto en la bodega"})
	}
	active, updated := rec.IsActive, rec.UpdatedAt
	return c.JSON(dto.StockLevelResponse{
		ProductID:         rec.ProductID,
		WarehouseID:       rec.WarehouseID,
		Quantity:          rec.Quantity,
		ReservedQuantity:  rec.ReservedQuantity,
		AvailableQuantity: rec.AvailableQuantity(),
		AverageCost:       rec.AverageCost,
		IsActive:          &active,
		UpdatedAt:         &updated,
	})
}

// ListTransactions godoc
// @Summary      Libro de transacciones
// @Description  Del más reciente al más antiguo; filtros opcionales.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        reference     query  string  false  "Número de referencia"
// @Param        limit         query  int     false  "Máximo 100"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	list, err := h.reader.ListTransactions(c.UserContext(), repository.TransactionFilter{
		ProductID:       c.Query("product_id"),
		WarehouseID:     c.Query("warehouse_id"),
		ReferenceNumber: c.Query("reference"),
		Limit:           page.Limit,
		Offset:          page.Offset,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, tx := range list {
		items = append(items, transactionResponse(tx))
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	})
}

func levelResponse(l inventory.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ProductID:         l.ProductID,
		WarehouseID:       l.WarehouseID,
		Quantity:          l.Quantity,
		ReservedQuantity:  l.ReservedQuantity,
		AvailableQuantity: l.AvailableQuantity,
		AverageCost:       l.AverageCost,
	}
}

func movementResponse(r *inventory.MovementResult) dto.MovementResponse {
	return dto.MovementResponse{StockLevelResponse: levelResponse(r.StockLevel), TransactionID: r.TransactionID}
}

func transactionResponse(tx *entity.TransactionRecord) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:               tx.ID,
		ProductID:        tx.ProductID,
		WarehouseID:      tx.WarehouseID,
		UserID:           tx.UserID,
		Type:             tx.Type,
		QuantityChanged:  tx.QuantityChanged,
		PreviousQuantity: tx.PreviousQuantity,
		NewQuantity:      tx.NewQuantity,
		UnitCost:         tx.UnitCost,
		TotalCost:        tx.TotalCost(),
		Reason:           tx.Reason,
		ReferenceNumber:  tx.ReferenceNumber,
		Notes:            tx.Notes,
		Timestamp:        tx.Timestamp,
	}
}
