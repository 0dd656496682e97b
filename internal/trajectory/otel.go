package trajectory

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/L1xtopher/hytempo/internal/trajectory"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

var (
	stepsTotal, _ = meter().Int64Counter(
		"hytempo.trajectory.steps",
		metric.WithDescription("Total integration steps taken"),
	)
	flightsTotal, _ = meter().Int64Counter(
		"hytempo.trajectory.flights",
		metric.WithDescription("Total flights simulated to ground impact"),
	)
)
