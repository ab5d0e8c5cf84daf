package repository

import "github.com/shopspring/decimal"

// AllocationSource tipo de fuente acotada contra la que se reserva.
type AllocationSource string

const (
	SourceCargoLine AllocationSource = "cargo_line" // remanente = received_qty - allocated_qty
	SourceDispatch  AllocationSource = "dispatch"   // remanente = total_qty - allocated_to_rotations
)

// AllocationRepository primitiva atómica de reserva/liberación sobre un
// remanente acotado. TryReserve debe ser un único UPDATE condicional contra la
// fila fuente: nunca un read-then-write en dos pasos sin coordinación.
type AllocationRepository interface {
	// TryReserve descuenta qty del remanente si alcanza. Devuelve false (sin
	// error) cuando el remanente es insuficiente; el caller consulta Remaining
	// para construir el rechazo tipado con el disponible real.
	TryReserve(source AllocationSource, sourceID string, qty decimal.Decimal) (bool, error)
	// Remaining lee el remanente actual de la fuente.
	Remaining(source AllocationSource, sourceID string) (decimal.Decimal, error)
	// Release devuelve qty al remanente. El caller nunca libera más de lo que
	// esa misma reserva consumió (se acota por reserva, no por pool).
	Release(source AllocationSource, sourceID string, qty decimal.Decimal) error
}
