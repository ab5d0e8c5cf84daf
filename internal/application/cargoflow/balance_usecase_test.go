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

// seedLedgerAndBalance asienta movimientos vía los casos de uso para que ledger
// y proyección avancen juntos: +50 recepción, -20 entrega, +5 ajuste.
func seedLedgerAndBalance(t *testing.T, env *testEnv) (productID, warehouseID string) {
	t.Helper()
	ctx := context.Background()
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")
	client := env.seedClient(t)
	carrier := env.seedCarrier(t, decimal.NewFromInt(60))
	line := env.seedAvailableLine(t, product.ID, decimal.NewFromInt(200))

	// +50: recepción desde línea de carga.
	inbound := env.createLineDispatch(t, line.ID, warehouse.ID, decimal.NewFromInt(50))
	r1 := planAndStart(t, env, inbound.ID, carrier.ID, decimal.NewFromInt(50))
	_, err := env.receptionUC.RecordReception(ctx, r1.ID, decimal.NewFromInt(50), "operator-1")
	require.NoError(t, err)

	// -20: entrega directa a cliente desde la bodega.
	outbound, err := env.dispatchUC.CreateDispatch(ctx, cargoflow.CreateDispatchInput{
		SourceWarehouseID:   warehouse.ID,
		ProductID:           product.ID,
		DestinationClientID: client.ID,
		Qty:                 decimal.NewFromInt(20),
		ManagerID:           "manager-1",
	})
	require.NoError(t, err)
	r2 := planAndStart(t, env, outbound.ID, carrier.ID, decimal.NewFromInt(20))
	_, err = env.receptionUC.RecordReception(ctx, r2.ID, decimal.NewFromInt(20), "operator-1")
	require.NoError(t, err)

	// +5: ajuste por conteo físico.
	_, err = env.receptionUC.RecordAdjustment(ctx, cargoflow.AdjustmentInput{
		ProductID:   product.ID,
		WarehouseID: warehouse.ID,
		Qty:         decimal.NewFromInt(5),
		Reason:      "conteo físico excedente",
		ActorID:     "manager-1",
	})
	require.NoError(t, err)

	return product.ID, warehouse.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación balance vs ledger
// ──────────────────────────────────────────────────────────────────────────────

// +50 -20 +5 = 35: la proyección coincide con el pliegue del ledger.
func TestReconcile_SinDeriva(t *testing.T) {
	env := newTestEnv(t)
	productID, warehouseID := seedLedgerAndBalance(t, env)
	ctx := context.Background()

	balance, err := env.balanceUC.CurrentBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(35)), "50 - 20 + 5 = 35")

	assert.NoError(t, env.balanceUC.Reconcile(ctx, productID, warehouseID))
}

// Deriva inyectada: Reconcile la detecta, la reporta con ambos valores y no
// toca ni el balance ni el ledger.
func TestReconcile_DetectaDeriva(t *testing.T) {
	env := newTestEnv(t)
	productID, warehouseID := seedLedgerAndBalance(t, env)
	ctx := context.Background()

	// Corromper la proyección por fuera del camino de escritura legal.
	env.seedBalance(t, productID, warehouseID, decimal.NewFromInt(99))

	err := env.balanceUC.Reconcile(ctx, productID, warehouseID)
	var driftErr *domain.DriftError
	require.ErrorAs(t, err, &driftErr)
	assert.Equal(t, productID, driftErr.ProductID)
	assert.Equal(t, warehouseID, driftErr.WarehouseID)
	assert.True(t, driftErr.Stored.Equal(decimal.NewFromInt(99)))
	assert.True(t, driftErr.FromLedger.Equal(decimal.NewFromInt(35)))

	// La detección no corrige en silencio.
	balance, err := env.balanceUC.CurrentBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, balance.OnHand.Equal(decimal.NewFromInt(99)))
}

// RebuildBalance repara la proyección desde el ledger tras una deriva.
func TestRebuildBalance_ReparaDesdeElLedger(t *testing.T) {
	env := newTestEnv(t)
	productID, warehouseID := seedLedgerAndBalance(t, env)
	ctx := context.Background()

	env.seedBalance(t, productID, warehouseID, decimal.NewFromInt(99))

	rebuilt, err := env.balanceUC.RebuildBalance(ctx, productID, warehouseID)
	require.NoError(t, err)
	assert.True(t, rebuilt.OnHand.Equal(decimal.NewFromInt(35)))

	// Tras el rebuild, la reconciliación vuelve a pasar.
	assert.NoError(t, env.balanceUC.Reconcile(ctx, productID, warehouseID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

// Sin asientos previos, el balance es cero, no un error.
func TestCurrentBalance_SinMovimientos(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	warehouse := env.seedWarehouse(t, "Magasin Nord")

	balance, err := env.balanceUC.CurrentBalance(context.Background(), product.ID, warehouse.ID)
	require.NoError(t, err)
	assert.True(t, balance.OnHand.IsZero())
	assert.Equal(t, product.ID, balance.ProductID)
}

func TestCurrentBalance_EntradaInvalida(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.balanceUC.CurrentBalance(context.Background(), "", "bodega")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Los movimientos de la bodega reflejan los tres asientos del flujo sembrado.
func TestWarehouseMovements_ListaLosAsientos(t *testing.T) {
	env := newTestEnv(t)
	productID, warehouseID := seedLedgerAndBalance(t, env)

	movements, err := env.balanceUC.WarehouseMovements(context.Background(), warehouseID, nil, nil, 50, 0)
	require.NoError(t, err)
	require.Len(t, movements, 3)

	byType := map[string]decimal.Decimal{}
	for _, m := range movements {
		assert.Equal(t, productID, m.ProductID)
		byType[m.Type] = m.Qty
	}
	assert.True(t, byType[entity.LedgerTypeReception].Equal(decimal.NewFromInt(50)))
	assert.True(t, byType[entity.LedgerTypeDelivery].Equal(decimal.NewFromInt(-20)))
	assert.True(t, byType[entity.LedgerTypeAdjustment].Equal(decimal.NewFromInt(5)))
}
