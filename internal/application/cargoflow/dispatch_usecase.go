package cargoflow

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// DispatchUseCase orquesta el ciclo de vida de los dispatches: creación con
// reserva atómica contra la fuente, anulación con liberación compensatoria y
// cierre (normal o corto).
type DispatchUseCase struct {
	txRunner      TxRunner
	tracker       *AllocationTracker
	dispatchRepo  repository.DispatchRepository
	warehouseRepo repository.WarehouseRepository
	clientRepo    repository.ClientRepository
	productRepo   repository.ProductRepository
}

// NewDispatchUseCase construye el caso de uso. dispatchRepo es el adaptador
// atado al pool, solo para lecturas; las escrituras pasan por el txRunner.
func NewDispatchUseCase(
	txRunner TxRunner,
	tracker *AllocationTracker,
	dispatchRepo repository.DispatchRepository,
	warehouseRepo repository.WarehouseRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
) *DispatchUseCase {
	return &DispatchUseCase{
		txRunner:      txRunner,
		tracker:       tracker,
		dispatchRepo:  dispatchRepo,
		warehouseRepo: warehouseRepo,
		clientRepo:    clientRepo,
		productRepo:   productRepo,
	}
}

// GetDispatch obtiene un dispatch por ID.
func (uc *DispatchUseCase) GetDispatch(ctx context.Context, dispatchID string) (*entity.Dispatch, error) {
	dispatch, err := uc.dispatchRepo.GetByID(dispatchID)
	if err != nil {
		return nil, err
	}
	if dispatch == nil {
		return nil, domain.ErrNotFound
	}
	return dispatch, nil
}

// ListDispatches lista dispatches con filtros.
func (uc *DispatchUseCase) ListDispatches(ctx context.Context, filter repository.DispatchFilter) ([]*entity.Dispatch, error) {
	return uc.dispatchRepo.List(filter)
}

// CreateDispatchInput entrada para crear un dispatch.
// Fuente: CargoLineID o (SourceWarehouseID + ProductID), exactamente una.
// Destino: DestinationWarehouseID o DestinationClientID, exactamente uno.
type CreateDispatchInput struct {
	CargoLineID            string
	SourceWarehouseID      string
	ProductID              string
	DestinationWarehouseID string
	DestinationClientID    string
	Qty                    decimal.Decimal
	ManagerID              string
	Notes                  string
}

// CreateDispatch reserva Qty contra la fuente y crea el dispatch en planned.
// El rechazo por capacidad se propaga tal cual, con el remanente real de la
// fuente: la UI depende de mostrar el "disponible" exacto para reintentar.
func (uc *DispatchUseCase) CreateDispatch(ctx context.Context, input CreateDispatchInput) (*entity.Dispatch, error) {
	if err := uc.validateCreate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	dispatch := &entity.Dispatch{
		ID:                     uuid.New().String(),
		Number:                 generateDispatchNumber(now),
		CargoLineID:            input.CargoLineID,
		SourceWarehouseID:      input.SourceWarehouseID,
		DestinationWarehouseID: input.DestinationWarehouseID,
		DestinationClientID:    input.DestinationClientID,
		ProductID:              input.ProductID,
		TotalQty:               input.Qty,
		AllocatedToRotations:   decimal.Zero,
		ShortfallQty:           decimal.Zero,
		Status:                 entity.DispatchStatusPlanned,
		ManagerID:              input.ManagerID,
		Notes:                  input.Notes,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	err := uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		if input.CargoLineID != "" {
			line, err := lineRepo.GetByID(input.CargoLineID)
			if err != nil {
				return err
			}
			if line == nil {
				return domain.ErrNotFound
			}
			if line.Status != entity.CargoLineStatusAvailable {
				return &domain.StateError{Entity: "cargo_line", ID: line.ID, Current: line.Status}
			}
			dispatch.ProductID = line.ProductID
			// Reserva atómica contra el remanente de la línea.
			if err := uc.tracker.Reserve(allocRepo, repository.SourceCargoLine, line.ID, input.Qty); err != nil {
				return err
			}
		} else {
			// Dispatch desde stock de bodega: el lock de la fila de balance
			// serializa la autorización frente a recepciones y otros dispatches.
			balance, err := balanceRepo.GetForUpdate(input.ProductID, input.SourceWarehouseID)
			if err != nil {
				return err
			}
			open, err := dispatchRepo.SumOpenFromWarehouse(input.SourceWarehouseID, input.ProductID)
			if err != nil {
				return err
			}
			available := balance.OnHand.Sub(open)
			if available.LessThan(input.Qty) {
				return &domain.CapacityError{
					SourceID:  input.SourceWarehouseID,
					Requested: input.Qty,
					Available: available,
				}
			}
		}
		return dispatchRepo.Create(dispatch)
	})
	if err != nil {
		return nil, err
	}
	return dispatch, nil
}

// CancelDispatch anula un dispatch: solo legal en planned y sin rotaciones.
// La liberación de la reserva y la transición de estado son una sola escritura
// transaccional (compensación atómica).
func (uc *DispatchUseCase) CancelDispatch(ctx context.Context, dispatchID string) error {
	return uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		dispatch, err := dispatchRepo.GetForUpdate(dispatchID)
		if err != nil {
			return err
		}
		if dispatch == nil {
			return domain.ErrNotFound
		}
		if dispatch.Status != entity.DispatchStatusPlanned {
			return &domain.StateError{Entity: "dispatch", ID: dispatchID, Current: dispatch.Status}
		}
		count, err := rotationRepo.CountByDispatch(dispatchID)
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.StateError{Entity: "dispatch", ID: dispatchID, Current: dispatch.Status}
		}
		if dispatch.FromCargoLine() {
			// Devuelve exactamente lo que esta reserva consumió, nunca más.
			if err := uc.tracker.Release(allocRepo, repository.SourceCargoLine, dispatch.CargoLineID, dispatch.TotalQty); err != nil {
				return err
			}
		}
		dispatch.Status = entity.DispatchStatusCancelled
		dispatch.UpdatedAt = time.Now()
		return dispatchRepo.Update(dispatch)
	})
}

// ForceClose cierra un dispatch parcialmente entregado registrando el faltante.
// Requiere todas las rotaciones en estado terminal. La parte nunca asignada a
// rotaciones vuelve a la línea de carga (sigue en muelle); la parte cargada y
// no entregada queda registrada como ShortfallQty, no se libera.
func (uc *DispatchUseCase) ForceClose(ctx context.Context, dispatchID string) (*entity.Dispatch, error) {
	var closed *entity.Dispatch
	err := uc.txRunner.Run(ctx, func(
		lineRepo repository.CargoLineRepository,
		dispatchRepo repository.DispatchRepository,
		rotationRepo repository.RotationRepository,
		ledgerRepo repository.LedgerRepository,
		balanceRepo repository.BalanceRepository,
		allocRepo repository.AllocationRepository,
	) error {
		dispatch, err := dispatchRepo.GetForUpdate(dispatchID)
		if err != nil {
			return err
		}
		if dispatch == nil {
			return domain.ErrNotFound
		}
		if dispatch.Status != entity.DispatchStatusInProgress {
			return &domain.StateError{Entity: "dispatch", ID: dispatchID, Current: dispatch.Status}
		}
		allTerminal, err := rotationRepo.AllTerminal(dispatchID)
		if err != nil {
			return err
		}
		if !allTerminal {
			return &domain.StateError{Entity: "dispatch", ID: dispatchID, Current: dispatch.Status}
		}
		delivered, err := rotationRepo.SumDelivered(dispatchID)
		if err != nil {
			return err
		}

		unallocated := dispatch.Remaining()
		if dispatch.FromCargoLine() && unallocated.GreaterThan(decimal.Zero) {
			if err := uc.tracker.Release(allocRepo, repository.SourceCargoLine, dispatch.CargoLineID, unallocated); err != nil {
				return err
			}
		}

		now := time.Now()
		dispatch.ShortfallQty = dispatch.TotalQty.Sub(delivered)
		if dispatch.ShortfallQty.LessThan(decimal.Zero) {
			dispatch.ShortfallQty = decimal.Zero
		}
		dispatch.Status = entity.DispatchStatusComplete
		dispatch.CompletedAt = &now
		dispatch.UpdatedAt = now
		if err := dispatchRepo.Update(dispatch); err != nil {
			return err
		}
		if err := reevaluateCargoLine(lineRepo, dispatchRepo, dispatch); err != nil {
			return err
		}
		closed = dispatch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (uc *DispatchUseCase) validateCreate(input CreateDispatchInput) error {
	fromLine := input.CargoLineID != ""
	fromWarehouse := input.SourceWarehouseID != ""
	if fromLine == fromWarehouse {
		return domain.ErrInvalidInput
	}
	if fromWarehouse && input.ProductID == "" {
		return domain.ErrInvalidInput
	}
	toWarehouse := input.DestinationWarehouseID != ""
	toClient := input.DestinationClientID != ""
	if toWarehouse == toClient {
		return domain.ErrInvalidInput
	}
	if input.SourceWarehouseID != "" && input.SourceWarehouseID == input.DestinationWarehouseID {
		return domain.ErrInvalidInput
	}
	if !input.Qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}

	// Existencia de maestros (solo lectura, fuera de la transacción).
	if fromWarehouse {
		wh, err := uc.warehouseRepo.GetByID(input.SourceWarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
		product, err := uc.productRepo.GetByID(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
	}
	if toWarehouse {
		wh, err := uc.warehouseRepo.GetByID(input.DestinationWarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}
	}
	if toClient {
		client, err := uc.clientRepo.GetByID(input.DestinationClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// reevaluateDispatchCompletion marca complete cuando todas las rotaciones son
// terminales y lo entregado alcanza el total. Se invoca con la fila del
// dispatch ya bloqueada.
func reevaluateDispatchCompletion(
	dispatchRepo repository.DispatchRepository,
	rotationRepo repository.RotationRepository,
	dispatch *entity.Dispatch,
) error {
	if dispatch.Status != entity.DispatchStatusInProgress {
		return nil
	}
	allTerminal, err := rotationRepo.AllTerminal(dispatch.ID)
	if err != nil {
		return err
	}
	if !allTerminal {
		return nil
	}
	delivered, err := rotationRepo.SumDelivered(dispatch.ID)
	if err != nil {
		return err
	}
	if delivered.LessThan(dispatch.TotalQty) {
		// Entrega incompleta: queda in_progress hasta nuevas rotaciones o un
		// cierre corto explícito del manager. Nunca se marca complete en silencio.
		return nil
	}
	now := time.Now()
	dispatch.Status = entity.DispatchStatusComplete
	dispatch.CompletedAt = &now
	dispatch.UpdatedAt = now
	return dispatchRepo.Update(dispatch)
}

// reevaluateCargoLine agota la línea cuando está totalmente asignada y todos
// sus dispatches están cerrados.
func reevaluateCargoLine(
	lineRepo repository.CargoLineRepository,
	dispatchRepo repository.DispatchRepository,
	dispatch *entity.Dispatch,
) error {
	if !dispatch.FromCargoLine() {
		return nil
	}
	line, err := lineRepo.GetForUpdate(dispatch.CargoLineID)
	if err != nil {
		return err
	}
	if line == nil || line.Status != entity.CargoLineStatusAvailable {
		return nil
	}
	if line.Remaining().GreaterThan(decimal.Zero) {
		return nil
	}
	allClosed, err := dispatchRepo.AllClosedForCargoLine(line.ID)
	if err != nil {
		return err
	}
	if !allClosed {
		return nil
	}
	line.Status = entity.CargoLineStatusExhausted
	return lineRepo.Update(line)
}

// generateDispatchNumber genera un número legible único: DISP-YYYYMMDD-XXXX.
func generateDispatchNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:4])
	return "DISP-" + now.Format("20060102") + "-" + suffix
}
