package cargo

import "github.com/shopspring/decimal"

// Variance calcula el écart entre lo previsto y lo entregado (servicio de dominio).
// Écart = previsto - entregado: positivo = faltante, negativo = excedente.
func Variance(plannedQty, deliveredQty decimal.Decimal) decimal.Decimal {
	return plannedQty.Sub(deliveredQty)
}

// VariancePct écart como porcentaje de lo previsto.
// El caller garantiza plannedQty > 0: las cantidades cero se rechazan al crear
// la reserva, así el denominador cero nunca llega aquí.
func VariancePct(plannedQty, deliveredQty decimal.Decimal) decimal.Decimal {
	if plannedQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return Variance(plannedQty, deliveredQty).
		Div(plannedQty).
		Mul(decimal.NewFromInt(100))
}
