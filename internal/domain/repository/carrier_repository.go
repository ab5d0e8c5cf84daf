package repository

import "github.com/tu-usuario/cargoflow-api/internal/domain/entity"

// CarrierRepository puerto de persistencia para transportistas (master data).
type CarrierRepository interface {
	Create(carrier *entity.Carrier) error
	GetByID(id string) (*entity.Carrier, error)
	List(onlyActive bool, limit, offset int) ([]*entity.Carrier, error)
	Update(carrier *entity.Carrier) error
}
