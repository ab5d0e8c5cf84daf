package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un dispatch.
const (
	DispatchStatusPlanned    = "planned"
	DispatchStatusInProgress = "in_progress" // primera rotación creada
	DispatchStatusComplete   = "complete"
	DispatchStatusCancelled  = "cancelled" // solo desde planned, sin rotaciones
)

// Dispatch asignación de una cantidad acotada desde una línea de carga (o desde
// stock de bodega) hacia un destino (bodega o cliente directo).
// Invariante: AllocatedToRotations <= TotalQty.
type Dispatch struct {
	ID     string
	Number string // DISP-YYYYMMDD-XXXX, único

	// Fuente: exactamente uno de los dos.
	CargoLineID       string
	SourceWarehouseID string

	// Destino: exactamente uno de los dos.
	DestinationWarehouseID string
	DestinationClientID    string

	ProductID            string
	TotalQty             decimal.Decimal
	AllocatedToRotations decimal.Decimal
	ShortfallQty         decimal.Decimal // registrado al cerrar corto (force-close)
	Status               string
	ManagerID            string
	Notes                string
	CompletedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Remaining cantidad del dispatch aún no asignada a rotaciones.
func (d *Dispatch) Remaining() decimal.Decimal {
	return d.TotalQty.Sub(d.AllocatedToRotations)
}

// FromCargoLine indica si el dispatch consume una línea de carga (vs stock de bodega).
func (d *Dispatch) FromCargoLine() bool {
	return d.CargoLineID != ""
}

// ToWarehouse indica si el destino es una bodega (vs entrega directa a cliente).
func (d *Dispatch) ToWarehouse() bool {
	return d.DestinationWarehouseID != ""
}
