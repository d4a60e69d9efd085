package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
)

// Adaptadores de los requests HTTP a las operaciones del libro. userID es el actor autenticado.

// AdjustFromRequest adapta dto.AdjustmentRequest a Adjust.
func (l *StockLedger) AdjustFromRequest(ctx context.Context, userID string, in dto.AdjustmentRequest) (*MovementResult, error) {
	return l.Adjust(ctx, AdjustInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Delta:           in.Quantity,
		UnitCost:        in.UnitCost,
		UserID:          userID,
		Reason:          in.Reason,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
}

// StockInFromRequest adapta dto.StockMovementRequest a StockIn.
func (l *StockLedger) StockInFromRequest(ctx context.Context, userID string, in dto.StockMovementRequest) (*MovementResult, error) {
	return l.StockIn(ctx, stockInput(userID, in))
}

// StockOutFromRequest adapta dto.StockMovementRequest a StockOut.
func (l *StockLedger) StockOutFromRequest(ctx context.Context, userID string, in dto.StockMovementRequest) (*MovementResult, error) {
	return l.StockOut(ctx, stockInput(userID, in))
}

// ReserveFromRequest adapta dto.ReservationRequest a Reserve.
func (l *StockLedger) ReserveFromRequest(ctx context.Context, userID string, in dto.ReservationRequest) (*ReservationResult, error) {
	return l.Reserve(ctx, reservationInput(userID, in))
}

// ReleaseFromRequest adapta dto.ReservationRequest a ReleaseReservation.
func (l *StockLedger) ReleaseFromRequest(ctx context.Context, userID string, in dto.ReservationRequest) (*ReservationResult, error) {
	return l.ReleaseReservation(ctx, reservationInput(userID, in))
}

// TransferFromRequest adapta dto.TransferRequest a Transfer.
func (l *StockLedger) TransferFromRequest(ctx context.Context, userID string, in dto.TransferRequest) (*TransferResult, error) {
	return l.Transfer(ctx, TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		UserID:          userID,
		Reason:          in.Reason,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
}

func stockInput(userID string, in dto.StockMovementRequest) StockInput {
	return StockInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		UserID:          userID,
		Reason:          in.Reason,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	}
}

func reservationInput(userID string, in dto.ReservationRequest) ReservationInput {
	return ReservationInput{
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		Quantity:        in.Quantity,
		UserID:          userID,
		Reason:          in.Reason,
		ReferenceNumber: in.ReferenceNumber,
	}
}
