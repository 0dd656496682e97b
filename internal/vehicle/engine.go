package vehicle

import (
	"math"

	"github.com/L1xtopher/hytempo/internal/model"
)

// StandardGravity converts specific impulse in seconds to exhaust velocity.
const StandardGravity = 9.80665

// EngineKind tags the propulsion variant.
type EngineKind int

const (
	Liquid EngineKind = iota
	Hybrid
	Solid
)

func (k EngineKind) String() string {
	switch k {
	case Liquid:
		return "liquid"
	case Hybrid:
		return "hybrid"
	case Solid:
		return "solid"
	default:
		return "unknown"
	}
}

// MassFlowModel yields the total propellant mass flow in kg/s at a point in
// the burn. Liquid and solid engines use a constant rated flow; hybrids add
// a pressure-dependent fuel regression term through the same interface.
type MassFlowModel interface {
	MassFlow(elapsed, chamberPressure float64) float64
}

// ConstantMassFlow is the rated flow of a liquid or solid engine.
type ConstantMassFlow struct {
	Rate float64 // kg/s
}

// MassFlow returns the rated flow regardless of elapsed time and pressure.
func (m ConstantMassFlow) MassFlow(_, _ float64) float64 {
	return m.Rate
}

// RegressionMassFlow models a hybrid feed: a constant oxidizer flow plus a
// fuel flow from a power-law regression in chamber pressure,
// FuelRate·(Pc/RefPressure)^Exponent.
type RegressionMassFlow struct {
	OxidizerRate float64 // kg/s
	FuelRate     float64 // kg/s at the reference pressure
	RefPressure  float64 // Pa
	Exponent     float64
}

// MassFlow returns the combined oxidizer and fuel flow.
func (m RegressionMassFlow) MassFlow(_, chamberPressure float64) float64 {
	if chamberPressure <= 0 || m.RefPressure <= 0 {
		return m.OxidizerRate
	}
	return m.OxidizerRate + m.FuelRate*math.Pow(chamberPressure/m.RefPressure, m.Exponent)
}

// Engine is the propulsion unit. The mass-flow and specific-impulse
// strategies are composed, not inherited: any Model evaluating impulse and
// any MassFlowModel can be combined with any variant tag.
type Engine struct {
	Name   string
	Kind   EngineKind
	Mass   float64
	Length float64
	InHull bool

	ChamberPressure float64 // Pa during the burn
	MixtureRatio    float64 // O/F mass ratio; zero for solids
	ExpansionRatio  float64
	Burn            float64 // rated burn duration, s

	// NozzleExitArea and NozzleExitPressure parameterize the pressure
	// thrust term Ae·(Pe − Pamb). Both zero disables the term.
	NozzleExitArea     float64 // m^2
	NozzleExitPressure float64 // Pa

	Flow MassFlowModel
	ISP  model.Model
}

// BurnTime is the rated burn duration in seconds.
func (e *Engine) BurnTime() float64 {
	return e.Burn
}

// Burning reports whether the engine is inside its burn window at the given
// elapsed time since ignition.
func (e *Engine) Burning(elapsed float64) bool {
	return elapsed >= 0 && elapsed < e.Burn
}

// MassFlow is the propellant consumption in kg/s at the given elapsed time,
// zero outside the burn window.
func (e *Engine) MassFlow(elapsed float64) float64 {
	if !e.Burning(elapsed) {
		return 0
	}
	return e.Flow.MassFlow(elapsed, e.ChamberPressure)
}

// Thrust is the axial thrust in N at the given elapsed time and ambient
// pressure: mdot·Isp·g0 plus the nozzle pressure term inside the burn
// window, zero outside it.
func (e *Engine) Thrust(elapsed, ambientPressure float64) (float64, error) {
	if !e.Burning(elapsed) {
		return 0, nil
	}
	isp, err := e.ISP.Evaluate(e.ispInput(ambientPressure))
	if err != nil {
		return 0, err
	}
	thrust := e.MassFlow(elapsed)*isp*StandardGravity +
		e.NozzleExitArea*(e.NozzleExitPressure-ambientPressure)
	return thrust, nil
}

// ispInput maps the engine operating point onto the impulse model's input
// convention: solids evaluate over chamber pressure alone, liquids and
// hybrids over (mixture ratio, chamber pressure).
func (e *Engine) ispInput(ambientPressure float64) model.Input {
	if e.Kind == Solid {
		return model.Input{X: e.ChamberPressure, Ambient: ambientPressure}
	}
	return model.Input{X: e.MixtureRatio, Y: e.ChamberPressure, Ambient: ambientPressure}
}

// StackLength is the engine's contribution to the overall vehicle length.
func (e *Engine) StackLength() float64 {
	if e.InHull {
		return 0
	}
	return e.Length
}

// HullLength is the length of hull tube needed to cover the engine.
func (e *Engine) HullLength() float64 {
	if e.InHull {
		return e.Length
	}
	return 0
}
