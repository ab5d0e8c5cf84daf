package repository

import "github.com/tu-usuario/cargoflow-api/internal/domain/entity"

// WarehouseRepository puerto de persistencia para bodegas (master data).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
}
