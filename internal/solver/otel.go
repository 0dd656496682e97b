package solver

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/L1xtopher/hytempo/internal/solver"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

var (
	iterationsTotal, _ = meter().Int64Counter(
		"hytempo.solver.iterations",
		metric.WithDescription("Total root-finding iterations taken"),
	)
	solvesTotal, _ = meter().Int64Counter(
		"hytempo.solver.solves",
		metric.WithDescription("Total successful solves"),
	)
)
