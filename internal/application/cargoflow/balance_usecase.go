package cargoflow

import (
	"context"
	"time"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
	"github.com/tu-usuario/cargoflow-api/pkg/logger"
)

// BalanceUseCase consultas de stock y reconciliación entre la proyección de
// balances y el ledger (la fuente de verdad).
type BalanceUseCase struct {
	txRunner    TxRunner
	balanceRepo repository.BalanceRepository
	ledgerRepo  repository.LedgerRepository
	metrics     *Metrics
	log         *logger.Logger
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(
	txRunner TxRunner,
	balanceRepo repository.BalanceRepository,
	ledgerRepo repository.LedgerRepository,
	metrics *Metrics,
	log *logger.Logger,
) *BalanceUseCase {
	return &BalanceUseCase{
		txRunner:    txRunner,
		balanceRepo: balanceRepo,
		ledgerRepo:  ledgerRepo,
		metrics:     metrics,
		log:         log,
	}
}

// CurrentBalance devuelve la proyección para (producto, bodega). Sin asientos
// previos devuelve un balance en cero, no un error.
func (uc *BalanceUseCase) CurrentBalance(ctx context.Context, productID, warehouseID string) (*entity.Balance, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	balance, err := uc.balanceRepo.Get(productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return &entity.Balance{ProductID: productID, WarehouseID: warehouseID}, nil
	}
	return balance, nil
}

// WarehouseBalances lista la proyección de una bodega.
func (uc *BalanceUseCase) WarehouseBalances(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Balance, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.balanceRepo.ListByWarehouse(warehouseID, limit, offset)
}

// WarehouseMovements lista los asientos del ledger de una bodega.
func (uc *BalanceUseCase) WarehouseMovements(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	if warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.ListByWarehouse(warehouseID, from, to, limit, offset)
}

// ProductMovements lista los asientos del ledger de un producto en todas las bodegas.
func (uc *BalanceUseCase) ProductMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.ListByProduct(productID, from, to, limit, offset)
}

// Reconcile compara la proyección contra el pliegue del ledger bajo lock de la
// fila. La coincidencia es el caso normal; la divergencia indica un bug de
// escritura y se reporta como DriftError sin tocar los datos.
func (uc *BalanceUseCase) Reconcile(ctx context.Context, productID, warehouseID string) error {
	if productID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		balance, err := balanceRepo.GetForUpdate(productID, warehouseID)
		if err != nil {
			return err
		}
		fromLedger, err := ledgerRepo.Sum(productID, warehouseID)
		if err != nil {
			return err
		}
		if balance.OnHand.Equal(fromLedger) {
			return nil
		}
		uc.metrics.ReconciliationDrift.Inc()
		uc.log.Error().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Str("stored", balance.OnHand.String()).
			Str("from_ledger", fromLedger.String()).
			Msg("balance proyectado diverge del ledger")
		return &domain.DriftError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Stored:      balance.OnHand,
			FromLedger:  fromLedger,
		}
	})
}

// RebuildBalance reescribe la proyección desde el ledger. Es la reparación
// explícita tras un DriftError; el ledger nunca se modifica.
func (uc *BalanceUseCase) RebuildBalance(ctx context.Context, productID, warehouseID string) (*entity.Balance, error) {
	if productID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	var rebuilt *entity.Balance
	err := uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		if _, err := balanceRepo.GetForUpdate(productID, warehouseID); err != nil {
			return err
		}
		fromLedger, err := ledgerRepo.Sum(productID, warehouseID)
		if err != nil {
			return err
		}
		rebuilt = &entity.Balance{
			ProductID:   productID,
			WarehouseID: warehouseID,
			OnHand:      fromLedger,
			UpdatedAt:   time.Now(),
		}
		return balanceRepo.Set(rebuilt)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", productID).
		Str("warehouse_id", warehouseID).
		Str("on_hand", rebuilt.OnHand.String()).
		Msg("balance reconstruido desde el ledger")
	return rebuilt, nil
}
