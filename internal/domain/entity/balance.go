package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance proyección materializada del stock disponible por (producto, bodega).
// Invariante: OnHand == suma de LedgerEntry.Qty para la clave; recomputable
// desde el ledger en cualquier momento. Solo lo escribe el proyector de balances.
type Balance struct {
	ProductID   string
	WarehouseID string
	OnHand      decimal.Decimal
	UpdatedAt   time.Time
}
