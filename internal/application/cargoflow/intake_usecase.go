package cargoflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/internal/domain/repository"
)

// IntakeUseCase registra la llegada de navíos y la recepción física de sus
// líneas de carga. La confirmación de recepción NO toca el ledger: la carga en
// muelle no es stock de bodega hasta que una rotación la entrega.
type IntakeUseCase struct {
	txRunner    TxRunner
	shipRepo    repository.ShipRepository
	lineRepo    repository.CargoLineRepository
	productRepo repository.ProductRepository
}

// NewIntakeUseCase construye el caso de uso.
func NewIntakeUseCase(
	txRunner TxRunner,
	shipRepo repository.ShipRepository,
	lineRepo repository.CargoLineRepository,
	productRepo repository.ProductRepository,
) *IntakeUseCase {
	return &IntakeUseCase{
		txRunner:    txRunner,
		shipRepo:    shipRepo,
		lineRepo:    lineRepo,
		productRepo: productRepo,
	}
}

// DeclaredLineInput una línea del manifiesto de carga declarado.
type DeclaredLineInput struct {
	ProductID   string
	DeclaredQty decimal.Decimal
	Unit        string
	LotNumber   string
}

// RegisterArrivalInput entrada para registrar la llegada de un navío.
type RegisterArrivalInput struct {
	Name       string
	IMONumber  string
	OriginPort string
	ArrivedAt  time.Time
	ActorID    string
	Lines      []DeclaredLineInput
}

// RegisterArrival crea el navío y sus líneas de carga declaradas en una sola
// transacción. Cada línea nace en estado pending con cantidades en cero salvo
// la declarada; rechaza manifiestos vacíos o con cantidades no positivas.
func (uc *IntakeUseCase) RegisterArrival(ctx context.Context, input RegisterArrivalInput) (*entity.Ship, []string, error) {
	if input.Name == "" || input.IMONumber == "" || len(input.Lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	for _, l := range input.Lines {
		if l.ProductID == "" || !l.DeclaredQty.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil {
			return nil, nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	arrivedAt := input.ArrivedAt
	if arrivedAt.IsZero() {
		arrivedAt = now
	}
	ship := &entity.Ship{
		ID:         uuid.New().String(),
		Name:       input.Name,
		IMONumber:  input.IMONumber,
		OriginPort: input.OriginPort,
		Status:     entity.ShipStatusExpected,
		ArrivedAt:  arrivedAt,
		CreatedAt:  now,
		CreatedBy:  input.ActorID,
	}

	lineIDs := make([]string, 0, len(input.Lines))
	err := uc.txRunner.RunIntake(ctx, func(
		shipRepo repository.ShipRepository,
		lineRepo repository.CargoLineRepository,
	) error {
		lineIDs = lineIDs[:0] // el runner puede reintentar el callback completo
		if err := shipRepo.Create(ship); err != nil {
			return err
		}
		for _, l := range input.Lines {
			unit := l.Unit
			if unit == "" {
				unit = "T"
			}
			line := &entity.CargoLine{
				ID:          uuid.New().String(),
				ShipID:      ship.ID,
				ProductID:   l.ProductID,
				DeclaredQty: l.DeclaredQty,
				ReceivedQty: decimal.Zero,
				Unit:        unit,
				LotNumber:   l.LotNumber,
				Status:      entity.CargoLineStatusPending,
				CreatedAt:   now,
				CreatedBy:   input.ActorID,
			}
			if err := lineRepo.Create(line); err != nil {
				return err
			}
			lineIDs = append(lineIDs, line.ID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ship, lineIDs, nil
}

// GetShip obtiene un navío por ID.
func (uc *IntakeUseCase) GetShip(ctx context.Context, shipID string) (*entity.Ship, error) {
	ship, err := uc.shipRepo.GetByID(shipID)
	if err != nil {
		return nil, err
	}
	if ship == nil {
		return nil, domain.ErrNotFound
	}
	return ship, nil
}

// ListShips lista navíos, opcionalmente por estado.
func (uc *IntakeUseCase) ListShips(ctx context.Context, status string, limit, offset int) ([]*entity.Ship, error) {
	return uc.shipRepo.List(status, limit, offset)
}

// ListLines lista las líneas de carga de un navío.
func (uc *IntakeUseCase) ListLines(ctx context.Context, shipID string) ([]*entity.CargoLine, error) {
	return uc.lineRepo.ListByShip(shipID)
}

// GetLine obtiene una línea de carga por ID.
func (uc *IntakeUseCase) GetLine(ctx context.Context, lineID string) (*entity.CargoLine, error) {
	line, err := uc.lineRepo.GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, domain.ErrNotFound
	}
	return line, nil
}

// StartDischarge marca el inicio de descarga: navío expected -> discharging y
// sus líneas pending -> receiving.
func (uc *IntakeUseCase) StartDischarge(ctx context.Context, shipID string) error {
	return uc.txRunner.RunIntake(ctx, func(
		shipRepo repository.ShipRepository,
		lineRepo repository.CargoLineRepository,
	) error {
		ship, err := shipRepo.GetByID(shipID)
		if err != nil {
			return err
		}
		if ship == nil {
			return domain.ErrNotFound
		}
		if ship.Status != entity.ShipStatusExpected {
			return &domain.StateError{Entity: "ship", ID: shipID, Current: ship.Status}
		}
		ship.Status = entity.ShipStatusDischarging
		if err := shipRepo.Update(ship); err != nil {
			return err
		}
		return lineRepo.UpdateStatusForShip(shipID, entity.CargoLineStatusPending, entity.CargoLineStatusReceiving)
	})
}

// ConfirmReceipt confirma la cantidad físicamente recibida de una línea:
// pending/receiving -> available. Rechaza la doble confirmación y cantidades
// no positivas. Si era la última línea pendiente, el navío pasa a discharged.
func (uc *IntakeUseCase) ConfirmReceipt(ctx context.Context, cargoLineID string, receivedQty decimal.Decimal) error {
	if !receivedQty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.RunIntake(ctx, func(
		shipRepo repository.ShipRepository,
		lineRepo repository.CargoLineRepository,
	) error {
		line, err := lineRepo.GetForUpdate(cargoLineID)
		if err != nil {
			return err
		}
		if line == nil {
			return domain.ErrNotFound
		}
		switch line.Status {
		case entity.CargoLineStatusPending, entity.CargoLineStatusReceiving:
			// confirmable
		default:
			return &domain.StateError{Entity: "cargo_line", ID: cargoLineID, Current: line.Status}
		}
		now := time.Now()
		line.ReceivedQty = receivedQty
		line.ReceivedAt = &now
		line.Status = entity.CargoLineStatusAvailable
		if err := lineRepo.Update(line); err != nil {
			return err
		}

		// ¿Quedan líneas sin confirmar en el navío?
		siblings, err := lineRepo.ListByShip(line.ShipID)
		if err != nil {
			return err
		}
		for _, s := range siblings {
			if s.Status == entity.CargoLineStatusPending || s.Status == entity.CargoLineStatusReceiving {
				return nil
			}
		}
		ship, err := shipRepo.GetByID(line.ShipID)
		if err != nil || ship == nil {
			return err
		}
		ship.Status = entity.ShipStatusDischarged
		return shipRepo.Update(ship)
	})
}

// DepartShip registra la partida del navío, solo tras confirmar todas sus líneas.
func (uc *IntakeUseCase) DepartShip(ctx context.Context, shipID string) error {
	return uc.txRunner.RunIntake(ctx, func(
		shipRepo repository.ShipRepository,
		lineRepo repository.CargoLineRepository,
	) error {
		ship, err := shipRepo.GetByID(shipID)
		if err != nil {
			return err
		}
		if ship == nil {
			return domain.ErrNotFound
		}
		if ship.Status != entity.ShipStatusDischarged {
			return &domain.StateError{Entity: "ship", ID: shipID, Current: ship.Status}
		}
		now := time.Now()
		ship.Status = entity.ShipStatusDeparted
		ship.DepartedAt = &now
		return shipRepo.Update(ship)
	})
}
