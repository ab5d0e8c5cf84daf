package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del ledger de movimientos.
const (
	LedgerTypeReception   = "reception"    // entrada por recepción de rotación
	LedgerTypeDelivery    = "delivery"     // salida por entrega directa a cliente
	LedgerTypeTransferIn  = "transfer_in"  // entrada por traslado entre bodegas
	LedgerTypeTransferOut = "transfer_out" // salida por traslado entre bodegas
	LedgerTypeAdjustment  = "adjustment"   // ajuste manual con motivo
)

// LedgerEntry asiento inmutable y firmado del ledger de movimientos: la única
// fuente de verdad del stock. Positivo = entrada a la bodega, negativo = salida.
// Es el único camino de escritura que puede alterar un Balance, y siempre en la
// misma transacción que la proyección.
type LedgerEntry struct {
	ID          string
	Type        string
	ProductID   string
	WarehouseID string
	Qty         decimal.Decimal
	Reference   string // único: numero de rotación, ref de ajuste, etc.
	RotationID  string // vacío en ajustes manuales
	Description string
	OccurredAt  time.Time
	CreatedBy   string // actor autenticado, solo para atribución
}
