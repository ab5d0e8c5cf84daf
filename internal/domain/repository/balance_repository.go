package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

// BalanceRepository puerto de la proyección de balances por (producto, bodega).
// ApplyDelta solo se invoca junto al Append del ledger, en la misma transacción.
type BalanceRepository interface {
	Get(productID, warehouseID string) (*entity.Balance, error)
	// GetForUpdate bloquea la fila de balance; serializa la autorización de
	// dispatches desde bodega frente a recepciones concurrentes.
	GetForUpdate(productID, warehouseID string) (*entity.Balance, error)
	// ApplyDelta incrementa (o decrementa) el balance proyectado.
	ApplyDelta(productID, warehouseID string, delta decimal.Decimal) error
	// Set reescribe la proyección (rebuild explícito desde el ledger).
	Set(balance *entity.Balance) error
	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.Balance, error)
}
