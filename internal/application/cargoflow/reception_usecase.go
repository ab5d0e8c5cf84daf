package cargoflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/cargo"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// ReceptionUseCase registra la llegada de rotaciones a destino: fija la
// cantidad entregada, calcula el écart y asienta el movimiento en el ledger
// junto con la proyección de balance, todo en una transacción.
type ReceptionUseCase struct {
	txRunner TxRunner
	metrics  *Metrics
}

// NewReceptionUseCase construye el caso de uso.
func NewReceptionUseCase(txRunner TxRunner, metrics *Metrics) *ReceptionUseCase {
	return &ReceptionUseCase{txRunner: txRunner, metrics: metrics}
}

// ReceptionResult resultado de registrar una recepción.
type ReceptionResult struct {
	Rotation    *entity.Rotation
	Variance    decimal.Decimal
	VariancePct decimal.Decimal
	Status      string
}

// RecordReception fija la cantidad entregada de una rotación in_transit.
// Écart = prevista - entregada; cero o negativa => delivered, positiva => short.
// El écart es dato operativo, nunca un error. Una rotación ya recibida rechaza
// el segundo registro con error de estado: exactamente un asiento por rotación.
func (uc *ReceptionUseCase) RecordReception(ctx context.Context, rotationID string, deliveredQty decimal.Decimal, actorID string) (*ReceptionResult, error) {
	if deliveredQty.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var result *ReceptionResult
	err := uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		rotation, err := rotationRepo.GetForUpdate(rotationID)
		if err != nil {
			return err
		}
		if rotation == nil {
			return domain.ErrNotFound
		}
		if rotation.Status != entity.RotationStatusInTransit {
			return &domain.StateError{Entity: "rotation", ID: rotationID, Current: rotation.Status}
		}

		dispatch, err := dispatchRepo.GetForUpdate(rotation.DispatchID)
		if err != nil {
			return err
		}
		if dispatch == nil {
			return domain.ErrNotFound
		}

		variance := cargo.Variance(rotation.PlannedQty, deliveredQty)
		status := entity.RotationStatusDelivered
		if variance.GreaterThan(decimal.Zero) {
			status = entity.RotationStatusShort
		}

		now := time.Now()
		rotation.DeliveredQty = &deliveredQty
		rotation.Variance = &variance
		rotation.Status = status
		rotation.ArrivedAt = &now
		rotation.ReceivedBy = actorID
		rotation.UpdatedAt = now
		if err := rotationRepo.Update(rotation); err != nil {
			return err
		}

		// Asientos del ledger según origen/destino del dispatch. Una pérdida
		// total (entregada = 0) no mueve stock: la rotación queda short y el
		// faltante vive en el écart, no en el ledger.
		if deliveredQty.GreaterThan(decimal.Zero) {
			if err := appendMovements(ledgerRepo, balanceRepo, dispatch, rotation, deliveredQty, actorID, now); err != nil {
				return err
			}
		}

		if err := reevaluateDispatchCompletion(dispatchRepo, rotationRepo, dispatch); err != nil {
			return err
		}
		if err := reevaluateCargoLine(lineRepo, dispatchRepo, dispatch); err != nil {
			return err
		}

		result = &ReceptionResult{
			Rotation:    rotation,
			Variance:    variance,
			VariancePct: cargo.VariancePct(rotation.PlannedQty, deliveredQty),
			Status:      status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.Receptions.WithLabelValues(result.Status).Inc()
	return result, nil
}

// appendMovements asienta el movimiento de la rotación recibida y aplica el
// delta a la proyección, en la transacción ya abierta.
//
//	línea de carga -> bodega     : +reception en destino
//	bodega -> bodega             : -transfer_out en origen, +transfer_in en destino
//	bodega -> cliente            : -delivery en origen
//	línea de carga -> cliente    : entrega directa, sin asiento
func appendMovements(
	ledgerRepo repository.LedgerRepository,
	balanceRepo repository.BalanceRepository,
	dispatch *entity.Dispatch,
	rotation *entity.Rotation,
	deliveredQty decimal.Decimal,
	actorID string,
	now time.Time,
) error {
	write := func(entryType, warehouseID, reference string, qty decimal.Decimal) error {
		entry := &entity.LedgerEntry{
			ID:          uuid.New().String(),
			Type:        entryType,
			ProductID:   dispatch.ProductID,
			WarehouseID: warehouseID,
			Qty:         qty,
			Reference:   reference,
			RotationID:  rotation.ID,
			OccurredAt:  now,
			CreatedBy:   actorID,
		}
		if err := ledgerRepo.Append(entry); err != nil {
			return err
		}
		return balanceRepo.ApplyDelta(dispatch.ProductID, warehouseID, qty)
	}

	switch {
	case dispatch.FromCargoLine() && dispatch.ToWarehouse():
		return write(entity.LedgerTypeReception, dispatch.DestinationWarehouseID, rotation.Number, deliveredQty)
	case !dispatch.FromCargoLine() && dispatch.ToWarehouse():
		if err := write(entity.LedgerTypeTransferOut, dispatch.SourceWarehouseID, rotation.Number+"-OUT", deliveredQty.Neg()); err != nil {
			return err
		}
		return write(entity.LedgerTypeTransferIn, dispatch.DestinationWarehouseID, rotation.Number+"-IN", deliveredQty)
	case !dispatch.FromCargoLine():
		return write(entity.LedgerTypeDelivery, dispatch.SourceWarehouseID, rotation.Number, deliveredQty.Neg())
	}
	// línea de carga -> cliente: la mercancía nunca entra a una bodega.
	return nil
}

// AdjustmentInput entrada para un ajuste manual de stock.
type AdjustmentInput struct {
	ProductID   string
	WarehouseID string
	Qty         decimal.Decimal // firmada, no cero
	Reason      string
	ActorID     string
}

// RecordAdjustment asienta un ajuste manual (merma, conteo físico, corrección).
// El ajuste es el único asiento sin rotación asociada; exige motivo.
func (uc *ReceptionUseCase) RecordAdjustment(ctx context.Context, input AdjustmentInput) (*entity.LedgerEntry, error) {
	if input.ProductID == "" || input.WarehouseID == "" || input.Reason == "" || input.Qty.IsZero() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	entry := &entity.LedgerEntry{
		ID:          uuid.New().String(),
		Type:        entity.LedgerTypeAdjustment,
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		Qty:         input.Qty,
		Reference:   generateAdjustmentReference(now),
		Description: input.Reason,
		OccurredAt:  now,
		CreatedBy:   input.ActorID,
	}

	err := uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		// Un ajuste negativo nunca puede dejar el balance bajo cero.
		if input.Qty.LessThan(decimal.Zero) {
			balance, err := balanceRepo.GetForUpdate(input.ProductID, input.WarehouseID)
			if err != nil {
				return err
			}
			if balance.OnHand.Add(input.Qty).LessThan(decimal.Zero) {
				return domain.ErrInsufficientStock
			}
		}
		if err := ledgerRepo.Append(entry); err != nil {
			return err
		}
		return balanceRepo.ApplyDelta(input.ProductID, input.WarehouseID, input.Qty)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// generateAdjustmentReference genera una referencia única: ADJ-YYYYMMDD-XXXX.
func generateAdjustmentReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return "ADJ-" + now.Format("20060102") + "-" + suffix
}
