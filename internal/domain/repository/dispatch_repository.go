package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

// DispatchFilter filtros de listado de dispatches.
type DispatchFilter struct {
	Status      string
	WarehouseID string // origen o destino
	CargoLineID string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// DispatchRepository puerto de persistencia para dispatches.
// AllocatedToRotations solo lo muta AllocationRepository.
type DispatchRepository interface {
	Create(dispatch *entity.Dispatch) error
	GetByID(id string) (*entity.Dispatch, error)
	// GetForUpdate bloquea la fila para transiciones de estado atómicas.
	GetForUpdate(id string) (*entity.Dispatch, error)
	List(filter DispatchFilter) ([]*entity.Dispatch, error)
	Update(dispatch *entity.Dispatch) error
	// SumOpenFromWarehouse suma TotalQty de dispatches no terminales que toman
	// stock de la bodega para el producto dado. Se usa, bajo el lock de la fila
	// de balance, para autorizar nuevos dispatches desde bodega.
	SumOpenFromWarehouse(warehouseID, productID string) (decimal.Decimal, error)
	// AllClosedForCargoLine indica si todos los dispatches que consumen la línea
	// están en estado terminal (complete o cancelled). Parte de la condición de
	// agotamiento de la línea.
	AllClosedForCargoLine(cargoLineID string) (bool, error)
}
