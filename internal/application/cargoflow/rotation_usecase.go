package cargoflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// RotationUseCase planifica rotaciones de camión contra el remanente asignable
// de un dispatch, con la misma primitiva de reserva que usan los dispatches
// contra las líneas de carga.
type RotationUseCase struct {
	txRunner     TxRunner
	tracker      *AllocationTracker
	rotationRepo repository.RotationRepository
	carrierRepo  repository.CarrierRepository
}

// NewRotationUseCase construye el caso de uso. rotationRepo es el adaptador
// atado al pool, solo para lecturas; las escrituras pasan por el txRunner.
func NewRotationUseCase(
	txRunner TxRunner,
	tracker *AllocationTracker,
	rotationRepo repository.RotationRepository,
	carrierRepo repository.CarrierRepository,
) *RotationUseCase {
	return &RotationUseCase{
		txRunner:     txRunner,
		tracker:      tracker,
		rotationRepo: rotationRepo,
		carrierRepo:  carrierRepo,
	}
}

// GetRotation obtiene una rotación por ID.
func (uc *RotationUseCase) GetRotation(ctx context.Context, rotationID string) (*entity.Rotation, error) {
	rotation, err := uc.rotationRepo.GetByID(rotationID)
	if err != nil {
		return nil, err
	}
	if rotation == nil {
		return nil, domain.ErrNotFound
	}
	return rotation, nil
}

// ListRotations lista las rotaciones de un dispatch.
func (uc *RotationUseCase) ListRotations(ctx context.Context, dispatchID string) ([]*entity.Rotation, error) {
	return uc.rotationRepo.ListByDispatch(dispatchID)
}

// PlanRotationItem una rotación a crear: transportista + cantidad.
type PlanRotationItem struct {
	CarrierID string
	Qty       decimal.Decimal
	Notes     string
}

// PlanRotation reserva qty contra el remanente del dispatch y crea la rotación
// en planned. La primera rotación mueve el dispatch planned -> in_progress.
func (uc *RotationUseCase) PlanRotation(ctx context.Context, dispatchID string, item PlanRotationItem) (*entity.Rotation, error) {
	rotations, err := uc.plan(ctx, dispatchID, []PlanRotationItem{item})
	if err != nil {
		return nil, err
	}
	return rotations[0], nil
}

// PlanRotations variante batch, todo-o-nada: si una sola reserva del lote
// falla, ninguna rotación del lote se crea. Evita lotes a medio planificar
// que sub-asignan en silencio.
func (uc *RotationUseCase) PlanRotations(ctx context.Context, dispatchID string, items []PlanRotationItem) ([]*entity.Rotation, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	return uc.plan(ctx, dispatchID, items)
}

func (uc *RotationUseCase) plan(ctx context.Context, dispatchID string, items []PlanRotationItem) ([]*entity.Rotation, error) {
	// Validación previa: transportistas existentes, activos y con capacidad.
	for _, item := range items {
		if item.CarrierID == "" || !item.Qty.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		carrier, err := uc.carrierRepo.GetByID(item.CarrierID)
		if err != nil {
			return nil, err
		}
		if carrier == nil {
			return nil, domain.ErrNotFound
		}
		if !carrier.Active {
			return nil, domain.ErrConflict
		}
		if carrier.TruckCapacity.GreaterThan(decimal.Zero) && item.Qty.GreaterThan(carrier.TruckCapacity) {
			// La cota del camión se reporta como rechazo de capacidad con el
			// máximo transportable, igual que un remanente insuficiente.
			return nil, &domain.CapacityError{
				SourceID:  carrier.ID,
				Requested: item.Qty,
				Available: carrier.TruckCapacity,
			}
		}
	}

	var created []*entity.Rotation
	err := uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		created = created[:0] // el runner puede reintentar el callback completo

		// El lock del dispatch serializa numeración y transición de estado;
		// las reservas en sí ya son atómicas por el UPDATE condicional.
		dispatch, err := dispatchRepo.GetForUpdate(dispatchID)
		if err != nil {
			return err
		}
		if dispatch == nil {
			return domain.ErrNotFound
		}
		switch dispatch.Status {
		case entity.DispatchStatusPlanned, entity.DispatchStatusInProgress:
			// planificable
		default:
			return &domain.StateError{Entity: "dispatch", ID: dispatchID, Current: dispatch.Status}
		}

		count, err := rotationRepo.CountByDispatch(dispatchID)
		if err != nil {
			return err
		}

		now := time.Now()
		for i, item := range items {
			// Cualquier rechazo aquí revierte el lote entero (todo-o-nada).
			if err := uc.tracker.Reserve(allocRepo, repository.SourceDispatch, dispatchID, item.Qty); err != nil {
				return err
			}
			rotation := &entity.Rotation{
				ID:         uuid.New().String(),
				Number:     generateRotationNumber(dispatch.Number, count+i+1),
				DispatchID: dispatchID,
				CarrierID:  item.CarrierID,
				PlannedQty: item.Qty,
				Status:     entity.RotationStatusPlanned,
				Notes:      item.Notes,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := rotationRepo.Create(rotation); err != nil {
				return err
			}
			created = append(created, rotation)
		}

		if dispatch.Status == entity.DispatchStatusPlanned {
			dispatch.Status = entity.DispatchStatusInProgress
			dispatch.UpdatedAt = now
			return dispatchRepo.Update(dispatch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// StartRotation marca la salida del camión: planned -> in_transit.
// Idempotente si ya está in_transit (tolera requests reintentados);
// rechaza estados terminales.
func (uc *RotationUseCase) StartRotation(ctx context.Context, rotationID string) error {
	return uc.txRunner.Run(ctx, func(
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
		if rotation.Status == entity.RotationStatusInTransit {
			return nil // retry benigno
		}
		if rotation.Status != entity.RotationStatusPlanned {
			return &domain.StateError{Entity: "rotation", ID: rotationID, Current: rotation.Status}
		}
		now := time.Now()
		rotation.Status = entity.RotationStatusInTransit
		rotation.DepartedAt = &now
		rotation.UpdatedAt = now
		return rotationRepo.Update(rotation)
	})
}

// CancelRotation anula una rotación aún no partida y devuelve su cantidad al
// remanente del dispatch, en la misma transacción que el cambio de estado.
func (uc *RotationUseCase) CancelRotation(ctx context.Context, rotationID string) error {
	return uc.txRunner.Run(ctx, func(
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
		if rotation.Status != entity.RotationStatusPlanned {
			return &domain.StateError{Entity: "rotation", ID: rotationID, Current: rotation.Status}
		}
		if err := uc.tracker.Release(allocRepo, repository.SourceDispatch, rotation.DispatchID, rotation.PlannedQty); err != nil {
			return err
		}
		now := time.Now()
		rotation.Status = entity.RotationStatusCancelled
		rotation.UpdatedAt = now
		return rotationRepo.Update(rotation)
	})
}

// generateRotationNumber numera la rotación dentro de su dispatch: DISP-...-R001.
func generateRotationNumber(dispatchNumber string, index int) string {
	return fmt.Sprintf("%s-R%03d", dispatchNumber, index)
}
