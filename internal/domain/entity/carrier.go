package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Carrier transportista (chauffeur + camión) que ejecuta rotaciones.
type Carrier struct {
	ID            string
	Name          string
	Phone         string
	LicenseNumber string // único
	TruckNumber   string
	TruckCapacity decimal.Decimal // toneladas; cota superior de PlannedQty
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
