package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeclaredLineRequest una línea del manifiesto declarado de un navío.
type DeclaredLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	DeclaredQty decimal.Decimal `json:"declared_qty" validate:"required"`
	Unit        string          `json:"unit,omitempty"`
	LotNumber   string          `json:"lot_number,omitempty"`
}

// RegisterArrivalRequest body para POST /api/ships.
type RegisterArrivalRequest struct {
	Name       string                `json:"name" validate:"required"`
	IMONumber  string                `json:"imo_number" validate:"required"`
	OriginPort string                `json:"origin_port,omitempty"`
	ArrivedAt  *time.Time            `json:"arrived_at,omitempty"`
	Lines      []DeclaredLineRequest `json:"lines" validate:"required,min=1"`
}

// ShipResponse representación pública de un navío.
type ShipResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IMONumber  string     `json:"imo_number"`
	OriginPort string     `json:"origin_port,omitempty"`
	Status     string     `json:"status"`
	ArrivedAt  time.Time  `json:"arrived_at"`
	DepartedAt *time.Time `json:"departed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CargoLineResponse representación pública de una línea de carga.
type CargoLineResponse struct {
	ID           string          `json:"id"`
	ShipID       string          `json:"ship_id"`
	ProductID    string          `json:"product_id"`
	DeclaredQty  decimal.Decimal `json:"declared_qty"`
	ReceivedQty  decimal.Decimal `json:"received_qty"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
	RemainingQty decimal.Decimal `json:"remaining_qty"`
	Unit         string          `json:"unit"`
	LotNumber    string          `json:"lot_number,omitempty"`
	Status       string          `json:"status"`
	ReceivedAt   *time.Time      `json:"received_at,omitempty"`
}

// ConfirmReceiptRequest body para POST /api/cargo-lines/:id/receipt.
type ConfirmReceiptRequest struct {
	ReceivedQty decimal.Decimal `json:"received_qty" validate:"required"`
}

// CreateDispatchRequest body para POST /api/dispatches.
// Fuente: cargo_line_id o (source_warehouse_id + product_id), exactamente una.
// Destino: destination_warehouse_id o destination_client_id, exactamente uno.
type CreateDispatchRequest struct {
	CargoLineID            string          `json:"cargo_line_id,omitempty"`
	SourceWarehouseID      string          `json:"source_warehouse_id,omitempty"`
	ProductID              string          `json:"product_id,omitempty"`
	DestinationWarehouseID string          `json:"destination_warehouse_id,omitempty"`
	DestinationClientID    string          `json:"destination_client_id,omitempty"`
	Qty                    decimal.Decimal `json:"qty" validate:"required"`
	Notes                  string          `json:"notes,omitempty"`
}

// DispatchResponse representación pública de un dispatch.
type DispatchResponse struct {
	ID                     string          `json:"id"`
	Number                 string          `json:"number"`
	CargoLineID            string          `json:"cargo_line_id,omitempty"`
	SourceWarehouseID      string          `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string          `json:"destination_warehouse_id,omitempty"`
	DestinationClientID    string          `json:"destination_client_id,omitempty"`
	ProductID              string          `json:"product_id"`
	TotalQty               decimal.Decimal `json:"total_qty"`
	AllocatedToRotations   decimal.Decimal `json:"allocated_to_rotations"`
	RemainingQty           decimal.Decimal `json:"remaining_qty"`
	ShortfallQty           decimal.Decimal `json:"shortfall_qty"`
	Status                 string          `json:"status"`
	Notes                  string          `json:"notes,omitempty"`
	CompletedAt            *time.Time      `json:"completed_at,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// PlanRotationRequest una rotación a planificar.
type PlanRotationRequest struct {
	CarrierID string          `json:"carrier_id" validate:"required"`
	Qty       decimal.Decimal `json:"qty" validate:"required"`
	Notes     string          `json:"notes,omitempty"`
}

// PlanRotationsRequest body para POST /api/dispatches/:id/rotations (lote todo-o-nada).
type PlanRotationsRequest struct {
	Rotations []PlanRotationRequest `json:"rotations" validate:"required,min=1"`
}

// RotationResponse representación pública de una rotación.
type RotationResponse struct {
	ID           string           `json:"id"`
	Number       string           `json:"number"`
	DispatchID   string           `json:"dispatch_id"`
	CarrierID    string           `json:"carrier_id"`
	PlannedQty   decimal.Decimal  `json:"planned_qty"`
	DeliveredQty *decimal.Decimal `json:"delivered_qty,omitempty"`
	Variance     *decimal.Decimal `json:"variance,omitempty"`
	Status       string           `json:"status"`
	DepartedAt   *time.Time       `json:"departed_at,omitempty"`
	ArrivedAt    *time.Time       `json:"arrived_at,omitempty"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RecordReceptionRequest body para POST /api/rotations/:id/reception.
type RecordReceptionRequest struct {
	DeliveredQty decimal.Decimal `json:"delivered_qty"`
}

// ReceptionResponse resultado de una recepción: entrega, écart y estado final.
type ReceptionResponse struct {
	Rotation    RotationResponse `json:"rotation"`
	Variance    decimal.Decimal  `json:"variance"`
	VariancePct decimal.Decimal  `json:"variance_pct"`
	Status      string           `json:"status"`
}

// AdjustmentRequest body para POST /api/stock/adjustments.
type AdjustmentRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Qty         decimal.Decimal `json:"qty" validate:"required"`
	Reason      string          `json:"reason" validate:"required"`
}

// BalanceResponse stock proyectado por (producto, bodega).
type BalanceResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LedgerEntryResponse asiento del ledger de movimientos.
type LedgerEntryResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Qty         decimal.Decimal `json:"qty"`
	Reference   string          `json:"reference"`
	RotationID  string          `json:"rotation_id,omitempty"`
	Description string          `json:"description,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
}
