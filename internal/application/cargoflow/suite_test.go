package cargoflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
	"github.com/tu-usuario/cargoflow-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: todos los casos de uso del motor sobre el store en memoria.
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	store       *memStore
	metrics     *cargoflow.Metrics
	intakeUC    *cargoflow.IntakeUseCase
	dispatchUC  *cargoflow.DispatchUseCase
	rotationUC  *cargoflow.RotationUseCase
	receptionUC *cargoflow.ReceptionUseCase
	balanceUC   *cargoflow.BalanceUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	runner := &fakeTxRunner{store: store}
	metrics := cargoflow.NewMetrics(prometheus.NewRegistry())
	tracker := cargoflow.NewAllocationTracker(metrics)
	log := logger.New(logger.Config{Env: "development", Level: "error"})

	return &testEnv{
		store:       store,
		metrics:     metrics,
		intakeUC:    cargoflow.NewIntakeUseCase(runner, &fakeShipRepo{store: store}, &fakeCargoLineRepo{store: store}, &fakeProductRepo{store: store}),
		dispatchUC:  cargoflow.NewDispatchUseCase(runner, tracker, &fakeDispatchRepo{store: store}, &fakeWarehouseRepo{store: store}, &fakeClientRepo{store: store}, &fakeProductRepo{store: store}),
		rotationUC:  cargoflow.NewRotationUseCase(runner, tracker, &fakeRotationRepo{store: store}, &fakeCarrierRepo{store: store}),
		receptionUC: cargoflow.NewReceptionUseCase(runner, metrics),
		balanceUC:   cargoflow.NewBalanceUseCase(runner, &fakeBalanceRepo{store: store}, &fakeLedgerRepo{store: store}, metrics, log),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Seeds
// ──────────────────────────────────────────────────────────────────────────────

func (e *testEnv) seedProduct(t *testing.T) *entity.Product {
	t.Helper()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      "Blé tendre",
		Reference: "BLE-" + uuid.New().String()[:8],
		Unit:      "T",
		Active:    true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, (&fakeProductRepo{store: e.store}).Create(product))
	return product
}

func (e *testEnv) seedWarehouse(t *testing.T, name string) *entity.Warehouse {
	t.Helper()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, (&fakeWarehouseRepo{store: e.store}).Create(warehouse))
	return warehouse
}

func (e *testEnv) seedClient(t *testing.T) *entity.Client {
	t.Helper()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      "Moulins du Sud",
		Active:    true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, (&fakeClientRepo{store: e.store}).Create(client))
	return client
}

func (e *testEnv) seedCarrier(t *testing.T, capacity decimal.Decimal) *entity.Carrier {
	t.Helper()
	carrier := &entity.Carrier{
		ID:            uuid.New().String(),
		Name:          "Transport Benali",
		LicenseNumber: "LIC-" + uuid.New().String()[:8],
		TruckCapacity: capacity,
		Active:        true,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, (&fakeCarrierRepo{store: e.store}).Create(carrier))
	return carrier
}

// seedAvailableLine crea una línea de carga ya confirmada con receivedQty asignable.
func (e *testEnv) seedAvailableLine(t *testing.T, productID string, receivedQty decimal.Decimal) *entity.CargoLine {
	t.Helper()
	now := time.Now()
	line := &entity.CargoLine{
		ID:           uuid.New().String(),
		ShipID:       uuid.New().String(),
		ProductID:    productID,
		DeclaredQty:  receivedQty,
		ReceivedQty:  receivedQty,
		AllocatedQty: decimal.Zero,
		Unit:         "T",
		Status:       entity.CargoLineStatusAvailable,
		ReceivedAt:   &now,
		CreatedAt:    now,
	}
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.lines[line.ID] = line
	return line
}

// seedBalance fija directamente la proyección (para inyectar deriva en los tests).
func (e *testEnv) seedBalance(t *testing.T, productID, warehouseID string, onHand decimal.Decimal) {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.balances[balanceKey(productID, warehouseID)] = &entity.Balance{
		ProductID:   productID,
		WarehouseID: warehouseID,
		OnHand:      onHand,
		UpdatedAt:   time.Now(),
	}
}

// createLineDispatch crea un dispatch línea de carga -> bodega y devuelve la entidad.
func (e *testEnv) createLineDispatch(t *testing.T, lineID, destWarehouseID string, qty decimal.Decimal) *entity.Dispatch {
	t.Helper()
	dispatch, err := e.dispatchUC.CreateDispatch(context.Background(), cargoflow.CreateDispatchInput{
		CargoLineID:            lineID,
		DestinationWarehouseID: destWarehouseID,
		Qty:                    qty,
		ManagerID:              "manager-1",
	})
	require.NoError(t, err)
	return dispatch
}

func (e *testEnv) storedDispatch(t *testing.T, id string) *entity.Dispatch {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	dispatch, ok := e.store.dispatches[id]
	require.True(t, ok, "dispatch %s debe existir en el store", id)
	cp := *dispatch
	return &cp
}

func (e *testEnv) storedLine(t *testing.T, id string) *entity.CargoLine {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	line, ok := e.store.lines[id]
	require.True(t, ok, "línea %s debe existir en el store", id)
	cp := *line
	return &cp
}

func (e *testEnv) storedRotation(t *testing.T, id string) *entity.Rotation {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	rotation, ok := e.store.rotations[id]
	require.True(t, ok, "rotación %s debe existir en el store", id)
	cp := *rotation
	return &cp
}

func (e *testEnv) ledgerEntries(productID, warehouseID string) []*entity.LedgerEntry {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var out []*entity.LedgerEntry
	for _, entry := range e.store.ledger {
		if entry.ProductID == productID && entry.WarehouseID == warehouseID {
			cp := *entry
			out = append(out, &cp)
		}
	}
	return out
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
