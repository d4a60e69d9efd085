package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	ProductID       string           `json:"product_id"`
	WarehouseID     string           `json:"warehouse_id"`
	Quantity        int64            `json:"quantity"` // delta firmado, distinto de cero
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason          string           `json:"reason"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// StockMovementRequest body para POST /api/inventory/stock-in y /stock-out.
type StockMovementRequest struct {
	ProductID       string           `json:"product_id"`
	WarehouseID     string           `json:"warehouse_id"`
	Quantity        int64            `json:"quantity"` // positiva
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason          string           `json:"reason"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// ReservationRequest body para POST /api/inventory/reservations y /reservations/release.
type ReservationRequest struct {
	ProductID       string `json:"product_id"`
	WarehouseID     string `json:"warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Reason          string `json:"reason"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID       string `json:"product_id"`
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	Quantity        int64  `json:"quantity"`
	Reason          string `json:"reason"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// StockLevelResponse cantidades de un registro (product, warehouse).
type StockLevelResponse struct {
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	Quantity          int64           `json:"quantity"`
	ReservedQuantity  int64           `json:"reserved_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	IsActive          *bool           `json:"is_active,omitempty"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`
}

// MovementResponse respuesta de ajuste, entrada y salida.
type MovementResponse struct {
	StockLevelResponse
	TransactionID int64 `json:"transaction_id"`
}

// TransferResponse respuesta de un traslado.
type TransferResponse struct {
	ReferenceNumber  string             `json:"reference_number"`
	Source           StockLevelResponse `json:"source"`
	Destination      StockLevelResponse `json:"destination"`
	OutTransactionID int64              `json:"out_transaction_id"`
	InTransactionID  int64              `json:"in_transaction_id"`
}

// TransactionResponse una entrada del libro.
type TransactionResponse struct {
	ID               int64            `json:"id"`
	ProductID        string           `json:"product_id"`
	WarehouseID      string           `json:"warehouse_id"`
	UserID           string           `json:"user_id"`
	Type             string           `json:"transaction_type"`
	QuantityChanged  int64            `json:"quantity_changed"`
	PreviousQuantity int64            `json:"previous_quantity"`
	NewQuantity      int64            `json:"new_quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost        decimal.Decimal  `json:"total_cost"`
	Reason           string           `json:"reason,omitempty"`
	ReferenceNumber  string           `json:"reference_number,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// TransactionListResponse página del libro.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
