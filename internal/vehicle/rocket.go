package vehicle

import (
	"fmt"
	"math"

	"github.com/L1xtopher/hytempo/internal/model"
)

// Parameters records the closed design point of a rocket. The factory fills
// it; storage backends persist it alongside the trajectory.
type Parameters struct {
	Diameter          float64 `json:"diameter"`
	BurnTime          float64 `json:"burnTime"`
	Thrust            float64 `json:"thrust"`
	MixtureRatio      float64 `json:"mixtureRatio"`
	ChamberPressure   float64 `json:"chamberPressure"`
	ExpansionRatio    float64 `json:"expansionRatio"`
	PressurantPressure float64 `json:"pressurantPressure"`
}

// Config assembles a Rocket. All parts are handed over by value or as
// pointers the caller must not retain mutable access to; NewRocket derives
// the aggregate properties once.
type Config struct {
	Name       string
	Diameter   float64
	Components []Component
	Wetted     []*WettedPart
	Tanks      []*Tank
	Engine     *Engine
	Drag       model.Model // Cd over (Mach, L/D)
	Params     Parameters
}

// Rocket is the fully specified vehicle: an immutable aggregate of
// components, tanks and one engine. It is the structural memory handed to
// the trajectory estimator, which only ever reads it.
type Rocket struct {
	name       string
	diameter   float64
	components []Component
	wetted     []*WettedPart
	tanks      []*Tank
	engine     *Engine
	drag       model.Model
	params     Parameters

	length         float64
	lengthOverDiam float64
	frontalArea    float64
	dryMass        float64
	propellantMass float64
	fluidMass      float64
}

// NewRocket derives the aggregate mass and geometry of the vehicle and
// freezes it.
func NewRocket(cfg Config) (*Rocket, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("vehicle: rocket %q has no engine", cfg.Name)
	}
	if cfg.Diameter <= 0 {
		return nil, fmt.Errorf("vehicle: rocket %q has non-positive diameter %g", cfg.Name, cfg.Diameter)
	}
	if cfg.Drag == nil {
		return nil, fmt.Errorf("vehicle: rocket %q has no drag model", cfg.Name)
	}

	r := &Rocket{
		name:       cfg.Name,
		diameter:   cfg.Diameter,
		components: append([]Component(nil), cfg.Components...),
		wetted:     append([]*WettedPart(nil), cfg.Wetted...),
		tanks:      append([]*Tank(nil), cfg.Tanks...),
		engine:     cfg.Engine,
		drag:       cfg.Drag,
		params:     cfg.Params,
	}

	for _, c := range r.components {
		r.length += c.StackLength()
		r.dryMass += c.Mass
	}
	for _, w := range r.wetted {
		r.length += w.StackLength()
		r.dryMass += w.Mass
	}
	for _, t := range r.tanks {
		r.length += t.StackLength()
		r.dryMass += t.DryMass()
		r.fluidMass += t.FluidMass
		if t.Role == Propellant {
			r.propellantMass += t.FluidMass
		}
	}
	r.length += r.engine.StackLength()
	r.dryMass += r.engine.Mass

	if r.length <= 0 {
		return nil, fmt.Errorf("vehicle: rocket %q has non-positive length %g", cfg.Name, r.length)
	}
	r.lengthOverDiam = r.length / r.diameter
	r.frontalArea = math.Pi * r.diameter * r.diameter / 4
	return r, nil
}

// Name returns the rocket's name.
func (r *Rocket) Name() string { return r.name }

// Diameter returns the body diameter in m.
func (r *Rocket) Diameter() float64 { return r.diameter }

// Length returns the overall stack length in m.
func (r *Rocket) Length() float64 { return r.length }

// LengthOverDiameter returns the drag-table L/D ratio.
func (r *Rocket) LengthOverDiameter() float64 { return r.lengthOverDiam }

// FrontalArea returns the drag reference area in m^2.
func (r *Rocket) FrontalArea() float64 { return r.frontalArea }

// Engine returns the propulsion unit.
func (r *Rocket) Engine() *Engine { return r.engine }

// Tanks returns the tank list. Callers must not mutate the tanks.
func (r *Rocket) Tanks() []*Tank { return r.tanks }

// Wetted returns the feed-system parts. Callers must not mutate them.
func (r *Rocket) Wetted() []*WettedPart { return r.wetted }

// Params returns the closed design parameters.
func (r *Rocket) Params() Parameters { return r.params }

// DryMass is the vehicle mass with all tanks empty, in kg.
func (r *Rocket) DryMass() float64 { return r.dryMass }

// PropellantMass is the expellable propellant load in kg. Pressurant stays
// on board and is not counted.
func (r *Rocket) PropellantMass() float64 { return r.propellantMass }

// WetMass is the lift-off mass in kg.
func (r *Rocket) WetMass() float64 { return r.dryMass + r.fluidMass }

// PropellantConsumed is the propellant mass expelled after the given burn
// time, limited by the loaded propellant.
func (r *Rocket) PropellantConsumed(elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	burn := math.Min(elapsed, r.engine.BurnTime())
	consumed := r.engine.Flow.MassFlow(0, r.engine.ChamberPressure) * burn
	return math.Min(consumed, r.propellantMass)
}

// TotalMass is the vehicle mass in kg after the given elapsed burn time:
// the wet mass less expelled propellant, decreasing linearly during the
// powered phase and constant afterwards.
func (r *Rocket) TotalMass(elapsed float64) float64 {
	return r.WetMass() - r.PropellantConsumed(elapsed)
}

// DragCoefficient evaluates the drag model at the given Mach number and the
// vehicle's L/D ratio.
func (r *Rocket) DragCoefficient(mach float64) (float64, error) {
	return r.drag.Evaluate(model.Input{X: mach, Y: r.lengthOverDiam})
}
