package repository

import "github.com/tu-usuario/cargoflow-api/internal/domain/entity"

// ClientRepository puerto de persistencia para clientes (master data).
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	List(limit, offset int) ([]*entity.Client, error)
	Update(client *entity.Client) error
}
