package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse bodega / magasin de almacenamiento.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Capacity  decimal.Decimal // toneladas; 0 = sin límite declarado
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
