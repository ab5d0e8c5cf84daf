package repository

import "github.com/tu-usuario/cargoflow-api/internal/domain/entity"

// CargoLineRepository puerto para las líneas de carga declaradas por navío.
// Las mutaciones de AllocatedQty pasan por AllocationRepository, nunca por aquí.
type CargoLineRepository interface {
	Create(line *entity.CargoLine) error
	GetByID(id string) (*entity.CargoLine, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para check-then-write atómico.
	GetForUpdate(id string) (*entity.CargoLine, error)
	ListByShip(shipID string) ([]*entity.CargoLine, error)
	Update(line *entity.CargoLine) error
	// UpdateStatusForShip mueve todas las líneas del navío de un estado a otro.
	UpdateStatusForShip(shipID, fromStatus, toStatus string) error
}
