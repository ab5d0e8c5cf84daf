package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

// LedgerRepository puerto del ledger de movimientos. Append-only: no hay
// Update ni Delete; las correcciones se registran como asientos de ajuste.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	// Sum pliega el ledger completo para la clave (producto, bodega).
	// Es la verificación de corrección del balance proyectado.
	Sum(productID, warehouseID string) (decimal.Decimal, error)
	ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
}
