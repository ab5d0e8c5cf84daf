package repository

import "github.com/tu-usuario/cargoflow-api/internal/domain/entity"

// ShipRepository puerto de persistencia para navíos.
type ShipRepository interface {
	Create(ship *entity.Ship) error
	GetByID(id string) (*entity.Ship, error)
	List(status string, limit, offset int) ([]*entity.Ship, error)
	Update(ship *entity.Ship) error
}
