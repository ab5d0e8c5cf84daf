package cargoflow

import (
	"context"

	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que reserva, asiento de ledger y
// proyección de balance commitean o se revierten como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error) error

	// RunIntake transacción con los repos del registro de llegadas.
	RunIntake(ctx context.Context, fn func(
		shipRepo repository.ShipRepository,
		lineRepo repository.CargoLineRepository,
	) error) error
}
