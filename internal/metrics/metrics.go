package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores operacionais do batch de recorrência, expostos em /metrics.

var (
	RecurrenceGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recurrence_generated_total",
		Help: "Appointments materialized from recurring templates.",
	})

	RecurrenceSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recurrence_skipped_total",
		Help: "Templates skipped per batch run, by reason.",
	}, []string{"reason"})

	RecurrenceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recurrence_errors_total",
		Help: "Templates that failed during a batch run.",
	})
)
