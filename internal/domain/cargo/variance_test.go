package cargo_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/cargoflow-api/internal/domain/cargo"
)

// Entrega exacta: écart cero.
func TestVariance_EntregaExacta(t *testing.T) {
	ecart := cargo.Variance(decimal.NewFromInt(25), decimal.NewFromInt(25))
	assert.True(t, ecart.IsZero(), "entrega completa debe dar écart 0")
}

// Entrega corta: écart positivo (faltante).
func TestVariance_EntregaCorta(t *testing.T) {
	ecart := cargo.Variance(decimal.NewFromInt(15), decimal.NewFromInt(10))
	assert.True(t, ecart.Equal(decimal.NewFromInt(5)),
		"15 previstas y 10 entregadas deben dar écart 5")
}

// Entrega en exceso: écart negativo. Pasa en báscula; se registra tal cual.
func TestVariance_EntregaExcedente(t *testing.T) {
	ecart := cargo.Variance(decimal.NewFromInt(20), decimal.RequireFromString("20.350"))
	assert.True(t, ecart.Equal(decimal.RequireFromString("-0.350")))
}

func TestVariancePct_EntregaCorta(t *testing.T) {
	pct := cargo.VariancePct(decimal.NewFromInt(40), decimal.NewFromInt(30))
	assert.True(t, pct.Equal(decimal.NewFromInt(25)),
		"faltante de 10 sobre 40 previstas = 25%%")
}

func TestVariancePct_EntregaExacta(t *testing.T) {
	pct := cargo.VariancePct(decimal.NewFromInt(40), decimal.NewFromInt(40))
	assert.True(t, pct.IsZero())
}

// El previsto cero no debe llegar nunca aquí (se rechaza al reservar), pero si
// llega, el porcentaje degrada a cero en vez de dividir por cero.
func TestVariancePct_PrevistoCeroNoDividePorCero(t *testing.T) {
	pct := cargo.VariancePct(decimal.Zero, decimal.NewFromInt(10))
	assert.True(t, pct.IsZero())
}

// Cantidades con decimales de báscula (3 decimales, toneladas).
func TestVariance_PrecisionDecimal(t *testing.T) {
	ecart := cargo.Variance(
		decimal.RequireFromString("32.500"),
		decimal.RequireFromString("32.125"),
	)
	assert.True(t, ecart.Equal(decimal.RequireFromString("0.375")))
}
