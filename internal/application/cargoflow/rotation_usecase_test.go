package cargoflow_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/cargoflow-api/internal/application/cargoflow"
	"github.com/tu-usuario/cargoflow-api/internal/domain"
	"github.com/tu-usuario/cargoflow-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Planificación de rotaciones
// ──────────────────────────────────────────────────────────────────────────────

// Un dispatch de 40 T se cubre con rotaciones de 25 y 15; una tercera ya no cabe.
func TestPlanRotation_CubreElDispatch(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))
	ctx := context.Background()

	first, err := env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RotationStatusPlanned, first.Status)
	assert.Equal(t, dispatch.Number+"-R001", first.Number)

	// La primera rotación mueve el dispatch a in_progress.
	assert.Equal(t, entity.DispatchStatusInProgress, env.storedDispatch(t, dispatch.ID).Status)

	second, err := env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	assert.Equal(t, dispatch.Number+"-R002", second.Number)
	assert.True(t, env.storedDispatch(t, dispatch.ID).Remaining().IsZero())

	_, err = env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(1),
	})
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr, "el dispatch ya no tiene remanente asignable")
	assert.True(t, capErr.Available.IsZero())
}

// Sobre-planificar informa el remanente real del dispatch.
func TestPlanRotation_RechazoInformaDisponible(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))

	_, err := env.rotationUC.PlanRotation(context.Background(), dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(33),
	})
	require.NoError(t, err)

	_, err = env.rotationUC.PlanRotation(context.Background(), dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(10),
	})
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, dispatch.ID, capErr.SourceID)
	assert.True(t, capErr.Available.Equal(decimal.NewFromInt(7)))
}

// El lote es todo-o-nada: si la última reserva falla, ninguna rotación queda creada.
func TestPlanRotations_LoteTodoONada(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))

	_, err := env.rotationUC.PlanRotations(context.Background(), dispatch.ID, []cargoflow.PlanRotationItem{
		{CarrierID: carrier.ID, Qty: decimal.NewFromInt(25)},
		{CarrierID: carrier.ID, Qty: decimal.NewFromInt(20)}, // 45 > 40: revierte el lote
	})
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)

	stored := env.storedDispatch(t, dispatch.ID)
	assert.True(t, stored.AllocatedToRotations.IsZero(), "la reserva de 25 debe revertirse con el lote")
	assert.Equal(t, entity.DispatchStatusPlanned, stored.Status, "el dispatch no debe avanzar de estado")
	count, err := (&fakeRotationRepo{store: env.store}).CountByDispatch(dispatch.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "ninguna rotación del lote debe persistir")
}

// La capacidad del camión acota la rotación, con el mismo rechazo tipado.
func TestPlanRotation_CapacidadDelCamion(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(25))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(60))

	_, err := env.rotationUC.PlanRotation(context.Background(), dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(30),
	})
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr, "30 T en un camión de 25 debe rechazarse")
	assert.Equal(t, carrier.ID, capErr.SourceID)
	assert.True(t, capErr.Available.Equal(decimal.NewFromInt(25)))
}

// Un transportista inactivo no planifica.
func TestPlanRotation_TransportistaInactivo(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))

	env.store.mu.Lock()
	env.store.carriers[carrier.ID].Active = false
	env.store.mu.Unlock()

	_, err := env.rotationUC.PlanRotation(context.Background(), dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salida y anulación de rotaciones
// ──────────────────────────────────────────────────────────────────────────────

// Arrancar dos veces es benigno (retry de red); arrancar una terminal no.
func TestStartRotation_IdempotenteEnTransito(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))
	ctx := context.Background()

	rotation, err := env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(25),
	})
	require.NoError(t, err)

	require.NoError(t, env.rotationUC.StartRotation(ctx, rotation.ID))
	stored := env.storedRotation(t, rotation.ID)
	assert.Equal(t, entity.RotationStatusInTransit, stored.Status)
	require.NotNil(t, stored.DepartedAt)
	departedAt := *stored.DepartedAt

	// Segundo start: no-op, sin error y sin re-sellar la salida.
	require.NoError(t, env.rotationUC.StartRotation(ctx, rotation.ID))
	assert.True(t, env.storedRotation(t, rotation.ID).DepartedAt.Equal(departedAt))

	// Tras la recepción, start se rechaza con error de estado.
	_, err = env.receptionUC.RecordReception(ctx, rotation.ID, decimal.NewFromInt(25), "operator-1")
	require.NoError(t, err)
	err = env.rotationUC.StartRotation(ctx, rotation.ID)
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
}

// Anular una rotación planned devuelve su cantidad al remanente del dispatch y
// no recicla su número.
func TestCancelRotation_DevuelveAlRemanente(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))
	ctx := context.Background()

	rotation, err := env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	require.NoError(t, env.rotationUC.CancelRotation(ctx, rotation.ID))

	stored := env.storedDispatch(t, dispatch.ID)
	assert.True(t, stored.AllocatedToRotations.IsZero(), "las 25 T vuelven al remanente")
	assert.Equal(t, entity.RotationStatusCancelled, env.storedRotation(t, rotation.ID).Status)

	// La numeración sigue en R002: los números de rotaciones anuladas no se reutilizan.
	next, err := env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(40),
	})
	require.NoError(t, err)
	assert.Equal(t, dispatch.Number+"-R002", next.Number)
}

// Una rotación ya en tránsito no se anula: la carga salió del muelle.
func TestCancelRotation_EnTransitoRechaza(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))
	ctx := context.Background()

	rotation, err := env.rotationUC.PlanRotation(ctx, dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	require.NoError(t, env.rotationUC.StartRotation(ctx, rotation.ID))

	err = env.rotationUC.CancelRotation(ctx, rotation.ID)
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.RotationStatusInTransit, stateErr.Current)
}

// Planificar sobre un dispatch cerrado se rechaza con error de estado.
func TestPlanRotation_DispatchCerrado(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	carrier := env.seedCarrier(t, decimal.NewFromInt(40))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(100))
	dispatch := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(40))
	require.NoError(t, env.dispatchUC.CancelDispatch(context.Background(), dispatch.ID))

	_, err := env.rotationUC.PlanRotation(context.Background(), dispatch.ID, cargoflow.PlanRotationItem{
		CarrierID: carrier.ID, Qty: decimal.NewFromInt(10),
	})
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.DispatchStatusCancelled, stateErr.Current)
}
