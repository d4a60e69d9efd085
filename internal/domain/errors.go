package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput = errors.New("entrada inválida")

	// Taxonomía del libro de stock. Todas son fallas tipadas y recuperables por el llamador.
	ErrRecordNotFound             = errors.New("registro de inventario no encontrado")
	ErrInvalidAdjustment          = errors.New("ajuste inválido")
	ErrInsufficientAvailableStock = errors.New("stock disponible insuficiente")
	ErrExcessReleaseRequested     = errors.New("liberación mayor a lo reservado")
	ErrInvalidTransfer            = errors.New("traslado inválido")
	ErrPreconditionFailed         = errors.New("precondición fallida")
	ErrConcurrencyConflict        = errors.New("conflicto de concurrencia")
	ErrStoreUnavailable           = errors.New("almacén no disponible")
)

// IsBusinessRule indica si err es una de las fallas de regla de negocio (nunca se reintentan).
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrInvalidAdjustment) ||
		errors.Is(err, ErrInsufficientAvailableStock) ||
		errors.Is(err, ErrExcessReleaseRequested) ||
		errors.Is(err, ErrInvalidTransfer) ||
		errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, ErrInvalidInput)
}

// RecordNotFoundError no existe inventario para el par (producto, bodega).
type RecordNotFoundError struct {
	ProductID   string
	WarehouseID string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s: producto %s en bodega %s", ErrRecordNotFound, e.ProductID, e.WarehouseID)
}

func (e *RecordNotFoundError) Unwrap() error { return ErrRecordNotFound }

// InvalidAdjustmentError el delta dejaría la cantidad negativa o por debajo de lo reservado.
type InvalidAdjustmentError struct {
	Quantity int64
	Reserved int64
	Delta    int64
}

func (e *InvalidAdjustmentError) Error() string {
	return fmt.Sprintf("%s: cantidad %d, reservado %d, delta %d", ErrInvalidAdjustment, e.Quantity, e.Reserved, e.Delta)
}

func (e *InvalidAdjustmentError) Unwrap() error { return ErrInvalidAdjustment }

// InsufficientStockError se pidió más de lo disponible.
type InsufficientStockError struct {
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", ErrInsufficientAvailableStock, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientAvailableStock }

// ExcessReleaseError se pidió liberar más de lo reservado.
type ExcessReleaseError struct {
	Reserved  int64
	Requested int64
}

func (e *ExcessReleaseError) Error() string {
	return fmt.Sprintf("%s: reservado %d, solicitado %d", ErrExcessReleaseRequested, e.Reserved, e.Requested)
}

func (e *ExcessReleaseError) Unwrap() error { return ErrExcessReleaseRequested }

// InvalidTransferError origen igual a destino o cantidad no positiva.
type InvalidTransferError struct {
	Reason string
}

func (e *InvalidTransferError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidTransfer, e.Reason)
}

func (e *InvalidTransferError) Unwrap() error { return ErrInvalidTransfer }

// Entidades referenciadas por PreconditionError.
const (
	EntityProduct   = "product"
	EntityWarehouse = "warehouse"
	EntityUser      = "user"
)

// PreconditionError el producto, bodega o usuario referenciado no existe.
type PreconditionError struct {
	Entity string
	ID     string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s %q no existe", ErrPreconditionFailed, e.Entity, e.ID)
}

func (e *PreconditionError) Unwrap() error { return ErrPreconditionFailed }
