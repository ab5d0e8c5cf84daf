package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// Ensure TxRunner implements cargoflow.TxRunner.
var _ cargoflow.TxRunner = (*TxRunner)(nil)

// maxTxAttempts reintentos acotados ante fallas de serialización/deadlock.
const maxTxAttempts = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con repos
// atados a la tx y reintento acotado cuando Postgres aborta por conflicto.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del motor de flujo de carga,
// ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lineRepo repository.CargoLineRepository,
	dispatchRepo repository.DispatchRepository,
	rotationRepo repository.RotationRepository,
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		lineRepo := NewCargoLineRepository(tx)
		dispatchRepo := NewDispatchRepository(tx)
		rotationRepo := NewRotationRepository(tx)
		ledgerRepo := NewLedgerRepository(tx)
		balanceRepo := NewBalanceRepository(tx)
		allocRepo := NewAllocationRepository(tx)

		if err := fn(lineRepo, dispatchRepo, rotationRepo, ledgerRepo, balanceRepo, allocRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// RunIntake variante para el registro de navíos y líneas de carga.
func (r *TxRunner) RunIntake(ctx context.Context, fn func(
	shipRepo repository.ShipRepository,
	lineRepo repository.CargoLineRepository,
) error) error {
	return r.withRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		shipRepo := NewShipRepository(tx)
		lineRepo := NewCargoLineRepository(tx)

		if err := fn(shipRepo, lineRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// withRetry reintenta la transacción completa ante 40001/40P01. El callback
// debe ser puro respecto a la base: todo su estado vive dentro de la tx.
func (r *TxRunner) withRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	var err error
	for i := 0; i < maxTxAttempts; i++ {
		err = attempt(ctx)
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
