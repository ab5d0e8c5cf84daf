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

func registerShip(t *testing.T, env *testEnv, lines ...cargoflow.DeclaredLineInput) (*entity.Ship, []string) {
	t.Helper()
	ship, lineIDs, err := env.intakeUC.RegisterArrival(context.Background(), cargoflow.RegisterArrivalInput{
		Name:       "MV Atlas",
		IMONumber:  "IMO-9176187",
		OriginPort: "Rouen",
		ActorID:    "manager-1",
		Lines:      lines,
	})
	require.NoError(t, err)
	return ship, lineIDs
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de llegadas
// ──────────────────────────────────────────────────────────────────────────────

// El navío nace expected y sus líneas pending, con lo declarado intacto.
func TestRegisterArrival_CreaNavioYLineas(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)

	ship, lineIDs := registerShip(t, env,
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: decimal.NewFromInt(3000)},
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: d("1250.500"), LotNumber: "LOT-B"},
	)

	assert.Equal(t, entity.ShipStatusExpected, ship.Status)
	require.Len(t, lineIDs, 2)
	for _, id := range lineIDs {
		line := env.storedLine(t, id)
		assert.Equal(t, entity.CargoLineStatusPending, line.Status)
		assert.Equal(t, ship.ID, line.ShipID)
		assert.True(t, line.ReceivedQty.IsZero(), "sin recepción física todavía")
		assert.Equal(t, "T", line.Unit, "toneladas por defecto")
	}
}

// Manifiesto vacío o con cantidades no positivas: inválido, nada se persiste.
func TestRegisterArrival_ManifiestoInvalido(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	ctx := context.Background()

	_, _, err := env.intakeUC.RegisterArrival(ctx, cargoflow.RegisterArrivalInput{
		Name: "MV Atlas", IMONumber: "IMO-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = env.intakeUC.RegisterArrival(ctx, cargoflow.RegisterArrivalInput{
		Name: "MV Atlas", IMONumber: "IMO-1",
		Lines: []cargoflow.DeclaredLineInput{{ProductID: product.ID, DeclaredQty: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	env.store.mu.Lock()
	shipCount := len(env.store.ships)
	env.store.mu.Unlock()
	assert.Zero(t, shipCount)
}

// Un producto no registrado en el catálogo rechaza el manifiesto.
func TestRegisterArrival_ProductoDesconocido(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.intakeUC.RegisterArrival(context.Background(), cargoflow.RegisterArrivalInput{
		Name: "MV Atlas", IMONumber: "IMO-1",
		Lines: []cargoflow.DeclaredLineInput{{ProductID: "no-existe", DeclaredQty: decimal.NewFromInt(10)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Descarga y confirmación
// ──────────────────────────────────────────────────────────────────────────────

// expected -> discharging mueve también las líneas a receiving.
func TestStartDischarge_PropagaALasLineas(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	ship, lineIDs := registerShip(t, env,
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: decimal.NewFromInt(3000)},
	)

	require.NoError(t, env.intakeUC.StartDischarge(context.Background(), ship.ID))

	stored, err := env.intakeUC.GetShip(context.Background(), ship.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipStatusDischarging, stored.Status)
	assert.Equal(t, entity.CargoLineStatusReceiving, env.storedLine(t, lineIDs[0]).Status)

	// Doble inicio de descarga: error de estado.
	err = env.intakeUC.StartDischarge(context.Background(), ship.ID)
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
}

// La confirmación fija lo recibido (que puede diferir de lo declarado) y deja
// la línea asignable. La última confirmación marca el navío discharged.
func TestConfirmReceipt_FlujoCompleto(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	ship, lineIDs := registerShip(t, env,
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: decimal.NewFromInt(3000)},
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: decimal.NewFromInt(1000)},
	)
	ctx := context.Background()
	require.NoError(t, env.intakeUC.StartDischarge(ctx, ship.ID))

	// Primera línea: lo recibido difiere de lo declarado. Se acepta tal cual.
	require.NoError(t, env.intakeUC.ConfirmReceipt(ctx, lineIDs[0], d("2987.250")))
	line := env.storedLine(t, lineIDs[0])
	assert.Equal(t, entity.CargoLineStatusAvailable, line.Status)
	assert.True(t, line.ReceivedQty.Equal(d("2987.250")))
	require.NotNil(t, line.ReceivedAt)

	// Queda una línea sin confirmar: el navío sigue discharging.
	stored, err := env.intakeUC.GetShip(ctx, ship.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipStatusDischarging, stored.Status)

	// Última línea confirmada: discharged.
	require.NoError(t, env.intakeUC.ConfirmReceipt(ctx, lineIDs[1], decimal.NewFromInt(1000)))
	stored, err = env.intakeUC.GetShip(ctx, ship.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipStatusDischarged, stored.Status)
}

// La doble confirmación se rechaza: lo recibido se fija una sola vez.
func TestConfirmReceipt_DobleConfirmacion(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	ship, lineIDs := registerShip(t, env,
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: decimal.NewFromInt(3000)},
	)
	ctx := context.Background()
	require.NoError(t, env.intakeUC.StartDischarge(ctx, ship.ID))
	require.NoError(t, env.intakeUC.ConfirmReceipt(ctx, lineIDs[0], decimal.NewFromInt(3000)))

	err := env.intakeUC.ConfirmReceipt(ctx, lineIDs[0], decimal.NewFromInt(2500))
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr)
	assert.True(t, env.storedLine(t, lineIDs[0]).ReceivedQty.Equal(decimal.NewFromInt(3000)),
		"la primera confirmación es la que vale")
}

// ──────────────────────────────────────────────────────────────────────────────
// Partida
// ──────────────────────────────────────────────────────────────────────────────

// El navío solo parte tras confirmar todas sus líneas.
func TestDepartShip_RequiereDescargaCompleta(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t)
	ship, lineIDs := registerShip(t, env,
		cargoflow.DeclaredLineInput{ProductID: product.ID, DeclaredQty: decimal.NewFromInt(3000)},
	)
	ctx := context.Background()

	err := env.intakeUC.DepartShip(ctx, ship.ID)
	var stateErr *domain.StateError
	require.ErrorAs(t, err, &stateErr, "un navío expected no puede partir")

	require.NoError(t, env.intakeUC.StartDischarge(ctx, ship.ID))
	require.NoError(t, env.intakeUC.ConfirmReceipt(ctx, lineIDs[0], decimal.NewFromInt(3000)))
	require.NoError(t, env.intakeUC.DepartShip(ctx, ship.ID))

	stored, err := env.intakeUC.GetShip(ctx, ship.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShipStatusDeparted, stored.Status)
	require.NotNil(t, stored.DepartedAt)
}
