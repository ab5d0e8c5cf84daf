package repository

import "github.com/tu-usuario/cargoflow-api/internal/domain/entity"

// ProductRepository puerto de persistencia para productos (master data).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
