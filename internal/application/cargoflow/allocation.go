package cargoflow

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// AllocationTracker reparte reservas atómicas contra un remanente acotado.
// La misma primitiva sirve para líneas de carga (dispatches que las consumen)
// y para dispatches (rotaciones que los consumen). El descuento es un único
// UPDATE condicional en el adaptador; dos reservas concurrentes que sumen más
// que el remanente no pueden tener éxito ambas.
type AllocationTracker struct {
	metrics *Metrics
}

// NewAllocationTracker construye el tracker.
func NewAllocationTracker(metrics *Metrics) *AllocationTracker {
	return &AllocationTracker{metrics: metrics}
}

// Reserve descuenta qty del remanente de la fuente. El rechazo por capacidad
// no es excepcional: retorna *domain.CapacityError con el disponible real para
// que el caller proponga una cantidad corregida.
func (t *AllocationTracker) Reserve(
	allocRepo repository.AllocationRepository,
	source repository.AllocationSource,
	sourceID string,
	qty decimal.Decimal,
) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	ok, err := allocRepo.TryReserve(source, sourceID, qty)
	if err != nil {
		return err
	}
	if !ok {
		available, err := allocRepo.Remaining(source, sourceID)
		if err != nil {
			return err
		}
		if t.metrics != nil {
			t.metrics.ReservationRejections.WithLabelValues(string(source)).Inc()
		}
		return &domain.CapacityError{
			SourceID:  sourceID,
			Requested: qty,
			Available: available,
		}
	}
	return nil
}

// Release devuelve qty al remanente de la fuente (anulación de dispatch o
// rotación, cierre corto). El caller acota qty a lo que su propia reserva
// consumió; liberar más corrompería el invariante de conservación.
func (t *AllocationTracker) Release(
	allocRepo repository.AllocationRepository,
	source repository.AllocationSource,
	sourceID string,
	qty decimal.Decimal,
) error {
	if qty.IsZero() {
		return nil
	}
	if qty.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return allocRepo.Release(source, sourceID, qty)
}
