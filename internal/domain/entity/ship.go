package entity

import "time"

// Estados de un navío.
const (
	ShipStatusExpected    = "expected"    // anunciado, aún sin descargar
	ShipStatusDischarging = "discharging" // descarga en curso
	ShipStatusDischarged  = "discharged"  // todas las líneas confirmadas
	ShipStatusDeparted    = "departed"
)

// Ship representa la llegada de un navío con su cargamento declarado.
type Ship struct {
	ID         string
	Name       string
	IMONumber  string // único por navío
	OriginPort string
	Status     string
	ArrivedAt  time.Time
	DepartedAt *time.Time
	CreatedAt  time.Time
	CreatedBy  string
}
