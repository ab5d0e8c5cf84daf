package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una rotación (un viaje de camión).
const (
	RotationStatusPlanned   = "planned"
	RotationStatusInTransit = "in_transit"
	RotationStatusDelivered = "delivered" // entregada sin écart
	RotationStatusShort     = "short"     // entregada con écart; es dato, no error
	RotationStatusCancelled = "cancelled" // solo desde planned
)

// Rotation un viaje de camión que transporta parte de la cantidad de un dispatch.
// Invariante: PlannedQty <= remanente del dispatch al momento de crearla,
// y PlannedQty <= capacidad del camión del transportista.
type Rotation struct {
	ID           string
	Number       string // <numero dispatch>-RNNN, único
	DispatchID   string
	CarrierID    string
	PlannedQty   decimal.Decimal
	DeliveredQty *decimal.Decimal // nil hasta la recepción
	Variance     *decimal.Decimal // prévu - livré, fijado al recibir
	Status       string
	DepartedAt   *time.Time
	ArrivedAt    *time.Time
	ReceivedBy   string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal indica si la rotación ya no admite transiciones.
func (r *Rotation) Terminal() bool {
	switch r.Status {
	case RotationStatusDelivered, RotationStatusShort, RotationStatusCancelled:
		return true
	}
	return false
}
