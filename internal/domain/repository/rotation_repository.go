package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

// RotationRepository puerto de persistencia para rotaciones.
type RotationRepository interface {
	Create(rotation *entity.Rotation) error
	GetByID(id string) (*entity.Rotation, error)
	// GetForUpdate bloquea la fila; la recepción y el arranque de rotación la usan
	// para que la transición de estado y sus efectos sean una sola unidad atómica.
	GetForUpdate(id string) (*entity.Rotation, error)
	ListByDispatch(dispatchID string) ([]*entity.Rotation, error)
	Update(rotation *entity.Rotation) error
	CountByDispatch(dispatchID string) (int, error)
	// AllTerminal indica si todas las rotaciones del dispatch están en estado terminal.
	AllTerminal(dispatchID string) (bool, error)
	// SumDelivered suma las cantidades entregadas de las rotaciones del dispatch.
	SumDelivered(dispatchID string) (decimal.Decimal, error)
}
