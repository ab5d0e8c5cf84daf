package cargoflow

import "github.com/prometheus/client_golang/prometheus"

// Metrics contadores Prometheus del motor de flujo de carga.
// Los rechazos por capacidad son resultado de negocio esperado; se cuentan
// pero jamás se loguean como falla. La deriva de reconciliación sí es alarma.
type Metrics struct {
	ReservationRejections *prometheus.CounterVec
	Receptions            *prometheus.CounterVec
	ReconciliationDrift   prometheus.Counter
}

// NewMetrics crea y registra los contadores en el registry dado.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReservationRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cargoflow_reservation_rejections_total",
				Help: "Reservas rechazadas por capacidad insuficiente",
			},
			[]string{"source_type"},
		),
		Receptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cargoflow_receptions_total",
				Help: "Recepciones de rotaciones registradas",
			},
			[]string{"status"},
		),
		ReconciliationDrift: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cargoflow_reconciliation_drift_total",
				Help: "Divergencias detectadas entre balance proyectado y ledger",
			},
		),
	}
	reg.MustRegister(m.ReservationRejections, m.Receptions, m.ReconciliationDrift)
	return m
}
