package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de carga.
const (
	CargoLineStatusPending   = "pending"   // declarada, sin recepción física
	CargoLineStatusReceiving = "receiving" // navío en descarga
	CargoLineStatusAvailable = "available" // confirmada, asignable a dispatches
	CargoLineStatusExhausted = "exhausted" // totalmente asignada y entregada
)

// CargoLine una línea de producto dentro del cargamento declarado de un navío.
// Invariante: AllocatedQty <= ReceivedQty. AllocatedQty solo lo muta el
// allocation tracker (reserva/liberación atómica); la línea nunca se borra.
type CargoLine struct {
	ID           string
	ShipID       string
	ProductID    string
	DeclaredQty  decimal.Decimal
	ReceivedQty  decimal.Decimal
	AllocatedQty decimal.Decimal
	Unit         string // "T" por defecto (toneladas)
	LotNumber    string
	Status       string
	ReceivedAt   *time.Time
	CreatedAt    time.Time
	CreatedBy    string
}

// Remaining devuelve la cantidad aún asignable de la línea.
func (l *CargoLine) Remaining() decimal.Decimal {
	return l.ReceivedQty.Sub(l.AllocatedQty)
}
