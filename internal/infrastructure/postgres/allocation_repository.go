package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo reserva/liberación atómica sobre remanentes acotados.
// Cada operación es un único UPDATE condicional: la condición y el descuento
// se evalúan en la misma sentencia, así dos reservas concurrentes jamás
// sobre-asignan aunque ambas hayan leído el mismo remanente antes.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador de reservas. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// TryReserve descuenta qty del remanente si alcanza. Cero filas afectadas
// significa remanente insuficiente (o fuente en estado no asignable), nunca
// un error.
func (r *AllocationRepo) TryReserve(source repository.AllocationSource, sourceID string, qty decimal.Decimal) (bool, error) {
	var query string
	switch source {
	case repository.SourceCargoLine:
		query = `
			UPDATE cargo_lines
			SET allocated_qty = allocated_qty + $2
			WHERE id = $1 AND status = 'available'
			  AND received_qty - allocated_qty >= $2`
	case repository.SourceDispatch:
		query = `
			UPDATE dispatches
			SET allocated_to_rotations = allocated_to_rotations + $2, updated_at = now()
			WHERE id = $1 AND status IN ('planned', 'in_progress')
			  AND total_qty - allocated_to_rotations >= $2`
	default:
		return false, domain.ErrInvalidInput
	}
	cmd, err := r.q.Exec(context.Background(), query, sourceID, qty)
	if err != nil {
		return false, fmt.Errorf("try reserve %s: %w", source, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Remaining lee el remanente actual de la fuente.
func (r *AllocationRepo) Remaining(source repository.AllocationSource, sourceID string) (decimal.Decimal, error) {
	var query string
	switch source {
	case repository.SourceCargoLine:
		query = `SELECT received_qty - allocated_qty FROM cargo_lines WHERE id = $1`
	case repository.SourceDispatch:
		query = `SELECT total_qty - allocated_to_rotations FROM dispatches WHERE id = $1`
	default:
		return decimal.Zero, domain.ErrInvalidInput
	}
	var remaining decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, sourceID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("remaining %s: %w", source, err)
	}
	return remaining, nil
}

// Release devuelve qty al remanente. La condición impide dejar la asignación
// negativa si un caller libera de más por error.
func (r *AllocationRepo) Release(source repository.AllocationSource, sourceID string, qty decimal.Decimal) error {
	var query string
	switch source {
	case repository.SourceCargoLine:
		query = `
			UPDATE cargo_lines
			SET allocated_qty = allocated_qty - $2
			WHERE id = $1 AND allocated_qty >= $2`
	case repository.SourceDispatch:
		query = `
			UPDATE dispatches
			SET allocated_to_rotations = allocated_to_rotations - $2, updated_at = now()
			WHERE id = $1 AND allocated_to_rotations >= $2`
	default:
		return domain.ErrInvalidInput
	}
	cmd, err := r.q.Exec(context.Background(), query, sourceID, qty)
	if err != nil {
		return fmt.Errorf("release %s: %w", source, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
