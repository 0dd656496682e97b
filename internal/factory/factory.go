// Package factory turns a partially specified rocket design into a fully
// closed vehicle. A Template carries everything that is fixed about a
// design family: propellant combination, combustion tables, structural
// margins, feed-system losses. Each factory variant frees exactly one
// scalar parameter and closes it against a target constraint with the
// bracketed root finder; the build pipeline itself is shared.
package factory

import (
	"fmt"
	"math"

	"github.com/L1xtopher/hytempo/internal/fluid"
	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/L1xtopher/hytempo/internal/solver"
	"github.com/L1xtopher/hytempo/internal/vehicle"
)

const seaLevelPressure = 101325.0 // Pa

// Template is the fixed part of a design family. Zero values of the margin
// and loss fields select conventional defaults.
type Template struct {
	Name       string
	Components []vehicle.Component // payload stack: nosecone, avionics, recovery

	Fuel       string
	Oxidizer   string
	Pressurant string
	Fluids     fluid.Properties

	ISP  model.ISPSolver // combustion-equilibrium table for the propellant pair
	Drag model.Model     // Cd over (Mach, L/D)

	EngineMass       float64
	EngineLength     float64
	EngineEfficiency float64 // delivered/ideal ISP, default 0.9

	FuelTemp       float64 // K, default 300
	OxTemp         float64 // K, default 300
	PressurantTemp float64 // K, default 300

	LineLoss     float64 // feed-line pressure loss fraction, default 0.01
	RegenLoss    float64 // regenerative-cooling loss fraction (oxidizer side), default 0.1
	InjectorLoss float64 // injector pressure loss fraction, default 0.2

	FuelUllage       float64 // default 0.01
	OxUllage         float64 // default 0.1
	FuelSafety       float64 // default 3
	OxSafety         float64 // default 3
	PressurantSafety float64 // default 3

	EndCapThickness float64 // m, default 0.0015
	LayerThickness  float64 // m, winding layer quantum, default 0.001
	TensileStrength float64 // Pa, default 600 MPa
	HullWall        float64 // m, default 0.002

	// PressurantPressureFactor scales the highest propellant tank pressure
	// into the initial pressurant pressure when the design point leaves it
	// open. Default 1.5.
	PressurantPressureFactor float64

	Solver solver.Options
}

func (t Template) withDefaults() Template {
	def := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	def(&t.EngineEfficiency, 0.9)
	def(&t.FuelTemp, 300)
	def(&t.OxTemp, 300)
	def(&t.PressurantTemp, 300)
	def(&t.LineLoss, 0.01)
	def(&t.RegenLoss, 0.1)
	def(&t.InjectorLoss, 0.2)
	def(&t.FuelUllage, 0.01)
	def(&t.OxUllage, 0.1)
	def(&t.FuelSafety, 3)
	def(&t.OxSafety, 3)
	def(&t.PressurantSafety, 3)
	def(&t.EndCapThickness, 0.0015)
	def(&t.LayerThickness, 0.001)
	def(&t.TensileStrength, 600e6)
	def(&t.HullWall, 0.002)
	def(&t.PressurantPressureFactor, 1.5)
	if t.Solver == (solver.Options{}) {
		t.Solver = solver.DefaultOptions()
	}
	return t
}

func (t Template) validate() error {
	if t.Fluids == nil {
		return fmt.Errorf("factory: template %q has no fluid property source", t.Name)
	}
	if t.ISP == nil {
		return fmt.Errorf("factory: template %q has no combustion solver", t.Name)
	}
	if t.Drag == nil {
		return fmt.Errorf("factory: template %q has no drag model", t.Name)
	}
	if t.Fuel == "" || t.Oxidizer == "" || t.Pressurant == "" {
		return fmt.Errorf("factory: template %q must name fuel, oxidizer and pressurant", t.Name)
	}
	return nil
}

// ispModel builds the delivered-impulse model shared by sizing and flight.
func (t Template) ispModel(expansionRatio float64) *model.BipropISP {
	return &model.BipropISP{
		Solver:         t.ISP,
		Efficiency:     t.EngineEfficiency,
		ExpansionRatio: expansionRatio,
	}
}

// feedPoint is the sized feed system at one design point.
type feedPoint struct {
	isp          float64 // delivered sea-level ISP, s
	massFlow     float64 // kg/s total
	fuelFlow     float64
	oxFlow       float64
	fuelMass     float64
	oxMass       float64
	fuelPressure float64
	oxPressure   float64
	fuelDensity  float64
	oxDensity    float64
	fuelVolume   float64 // m^3 before ullage
	oxVolume     float64
}

// sizeFeed resolves the feed system from the design point: delivered ISP at
// sea level fixes the mass flow for the rated thrust, the mixture ratio
// splits it, the burn time fixes the loads, and the chamber pressure plus
// the loss chain fixes the tank pressures.
func (t Template) sizeFeed(p vehicle.Parameters) (feedPoint, error) {
	var fp feedPoint

	isp, err := t.ispModel(p.ExpansionRatio).Evaluate(model.Input{
		X: p.MixtureRatio, Y: p.ChamberPressure, Ambient: seaLevelPressure,
	})
	if err != nil {
		return fp, err
	}
	if isp <= 0 {
		return fp, fmt.Errorf("factory: non-positive ISP %g s at Pc=%g Pa, O/F=%g", isp, p.ChamberPressure, p.MixtureRatio)
	}
	fp.isp = isp
	fp.massFlow = p.Thrust / (isp * vehicle.StandardGravity)
	fp.fuelFlow = fp.massFlow / (p.MixtureRatio + 1)
	fp.oxFlow = fp.massFlow / (1/p.MixtureRatio + 1)
	fp.fuelMass = fp.fuelFlow * p.BurnTime
	fp.oxMass = fp.oxFlow * p.BurnTime

	fp.fuelPressure = p.ChamberPressure * (1 + t.LineLoss) * (1 + t.InjectorLoss)
	fp.oxPressure = p.ChamberPressure * (1 + t.LineLoss) * (1 + t.RegenLoss) * (1 + t.InjectorLoss)

	fp.fuelDensity, err = t.Fluids.Density(t.Fuel, t.FuelTemp, fp.fuelPressure)
	if err != nil {
		return fp, err
	}
	fp.oxDensity, err = t.Fluids.Density(t.Oxidizer, t.OxTemp, fp.oxPressure)
	if err != nil {
		return fp, err
	}
	fp.fuelVolume = fp.fuelMass / fp.fuelDensity
	fp.oxVolume = fp.oxMass / fp.oxDensity
	return fp, nil
}

// pressurantPoint sizes the pressurant vessel for both propellant tanks.
func (t Template) pressurantPoint(fp feedPoint, pressure float64) (volume, mass, massFlow float64, err error) {
	vFuel, err := pressurantVolume(fp.fuelVolume*(1+t.FuelUllage), fp.fuelPressure, pressure)
	if err != nil {
		return 0, 0, 0, err
	}
	vOx, err := pressurantVolume(fp.oxVolume*(1+t.OxUllage), fp.oxPressure, pressure)
	if err != nil {
		return 0, 0, 0, err
	}
	volume = vFuel + vOx

	density, err := t.Fluids.Density(t.Pressurant, t.PressurantTemp, pressure)
	if err != nil {
		return 0, 0, 0, err
	}
	mass = volume * density
	// the pressurant flow replaces the expelled propellant volume
	massFlow = (fp.fuelFlow/fp.fuelDensity + fp.oxFlow/fp.oxDensity) * density
	return volume, mass, massFlow, nil
}

// Build closes a fully specified design point into a Rocket. All parameters
// must be set; a zero PressurantPressure is derived from the tank pressures
// and the template's pressure factor.
func (t Template) Build(p vehicle.Parameters) (*vehicle.Rocket, error) {
	t = t.withDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	if p.Diameter <= 0 || p.BurnTime <= 0 || p.Thrust <= 0 || p.MixtureRatio <= 0 ||
		p.ChamberPressure <= 0 || p.ExpansionRatio <= 1 {
		return nil, fmt.Errorf("factory: design point of %q is not fully specified: %+v", t.Name, p)
	}

	fp, err := t.sizeFeed(p)
	if err != nil {
		return nil, err
	}
	if p.PressurantPressure == 0 {
		p.PressurantPressure = math.Max(fp.fuelPressure, fp.oxPressure) * t.PressurantPressureFactor
	}

	pressVol, pressMass, pressFlow, err := t.pressurantPoint(fp, p.PressurantPressure)
	if err != nil {
		return nil, err
	}

	pressurantTank, err := sizeTank(tankSpec{
		Fluid: t.Pressurant, Role: vehicle.Pressurant,
		RocketDiameter: p.Diameter, Safety: t.PressurantSafety,
		Volume: pressVol, Ullage: 0,
		Pressure: p.PressurantPressure, Temperature: t.PressurantTemp,
		MassFlow: pressFlow, FluidMass: pressMass,
		EndCapThickness: t.EndCapThickness, LayerThickness: t.LayerThickness,
		TensileStrength: t.TensileStrength,
	})
	if err != nil {
		return nil, err
	}
	fuelTank, err := sizeTank(tankSpec{
		Fluid: t.Fuel, Role: vehicle.Propellant,
		RocketDiameter: p.Diameter, Safety: t.FuelSafety,
		Volume: fp.fuelVolume, Ullage: t.FuelUllage,
		Pressure: fp.fuelPressure, Temperature: t.FuelTemp,
		MassFlow: fp.fuelFlow, FluidMass: fp.fuelMass,
		EndCapThickness: t.EndCapThickness, LayerThickness: t.LayerThickness,
		TensileStrength: t.TensileStrength,
	})
	if err != nil {
		return nil, err
	}
	oxTank, err := sizeTank(tankSpec{
		Fluid: t.Oxidizer, Role: vehicle.Propellant,
		RocketDiameter: p.Diameter, Safety: t.OxSafety,
		Volume: fp.oxVolume, Ullage: t.OxUllage,
		Pressure: fp.oxPressure, Temperature: t.OxTemp,
		MassFlow: fp.oxFlow, FluidMass: fp.oxMass,
		EndCapThickness: t.EndCapThickness, LayerThickness: t.LayerThickness,
		TensileStrength: t.TensileStrength,
	})
	if err != nil {
		return nil, err
	}

	// feed chain: tank -> line -> (regen on the oxidizer side) -> injector
	fuelLine := &vehicle.WettedPart{
		Component: vehicle.Component{Name: "fuel line", Mass: 0.4, Length: 0.2, InHull: true},
		Input:     fuelTank,
		Model:     model.PressureDrop(t.LineLoss),
	}
	oxLine := &vehicle.WettedPart{
		Component: vehicle.Component{Name: "oxidizer line", Mass: 0.4, Length: 0.2, InHull: true},
		Input:     oxTank,
		Model:     model.PressureDrop(t.LineLoss),
	}
	regen := &vehicle.WettedPart{
		Component: vehicle.Component{Name: "regenerative cooling"},
		Input:     oxLine,
		Model:     model.PressureDrop(t.RegenLoss),
	}
	fuelInjector := &vehicle.WettedPart{
		Component: vehicle.Component{Name: "fuel injector"},
		Input:     fuelLine,
		Model:     model.PressureDrop(t.InjectorLoss),
	}
	oxInjector := &vehicle.WettedPart{
		Component: vehicle.Component{Name: "oxidizer injector"},
		Input:     regen,
		Model:     model.PressureDrop(t.InjectorLoss),
	}
	wetted := []*vehicle.WettedPart{fuelLine, oxLine, regen, fuelInjector, oxInjector}

	engine := &vehicle.Engine{
		Name:            "engine",
		Kind:            vehicle.Liquid,
		Mass:            t.EngineMass,
		Length:          t.EngineLength,
		ChamberPressure: p.ChamberPressure,
		MixtureRatio:    p.MixtureRatio,
		ExpansionRatio:  p.ExpansionRatio,
		Burn:            p.BurnTime,
		Flow:            vehicle.ConstantMassFlow{Rate: fp.massFlow},
		ISP:             t.ispModel(p.ExpansionRatio),
	}

	components := append([]vehicle.Component(nil), t.Components...)
	hullLength := engine.HullLength()
	for _, c := range components {
		hullLength += c.HullLength()
	}
	for _, w := range wetted {
		hullLength += w.HullLength()
	}
	for _, tk := range []*vehicle.Tank{pressurantTank, fuelTank, oxTank} {
		hullLength += tk.HullLength()
	}
	components = append(components, hullTube(hullLength, p.Diameter, t.HullWall))

	return vehicle.NewRocket(vehicle.Config{
		Name:       t.Name,
		Diameter:   p.Diameter,
		Components: components,
		Wetted:     wetted,
		Tanks:      []*vehicle.Tank{fuelTank, oxTank, pressurantTank},
		Engine:     engine,
		Drag:       t.Drag,
		Params:     p,
	})
}

// BurnTimeFactory closes the vehicle diameter against a target burn time.
// The propellant tanks share a fixed stack length; a wider vehicle holds
// more propellant and burns longer at the rated thrust.
type BurnTimeFactory struct {
	Template   Template
	Params     vehicle.Parameters // Diameter and BurnTime are derived
	TankLength float64            // combined propellant tank length, m
	Target     float64            // burn time, s
	Bounds     [2]float64         // diameter bracket, m
}

// burnTimeAt is the constraint quantity: the burn time the tank length
// supports at a candidate diameter.
func (f *BurnTimeFactory) burnTimeAt(t Template, diameter float64) (float64, error) {
	p := f.Params
	p.Diameter = diameter
	fp, err := t.sizeFeed(p)
	if err != nil {
		return 0, err
	}

	// split the length budget in proportion to the specific volume demand
	// so both tanks deplete together
	volPerKgFuel := (1 + t.FuelUllage) / (fp.fuelDensity * (p.MixtureRatio + 1))
	volPerKgOx := (1 + t.OxUllage) * p.MixtureRatio / (fp.oxDensity * (p.MixtureRatio + 1))
	total := volPerKgFuel + volPerKgOx

	fuelLen := f.TankLength * volPerKgFuel / total
	oxLen := f.TankLength * volPerKgOx / total

	fuelCap := tankInnerVolume(fuelLen, diameter, fp.fuelPressure, t.FuelSafety,
		t.EndCapThickness, t.LayerThickness, t.TensileStrength)
	oxCap := tankInnerVolume(oxLen, diameter, fp.oxPressure, t.OxSafety,
		t.EndCapThickness, t.LayerThickness, t.TensileStrength)

	propellant := math.Min(fuelCap/volPerKgFuel, oxCap/volPerKgOx)
	return propellant / fp.massFlow, nil
}

// Build solves the diameter and closes the design.
func (f *BurnTimeFactory) Build() (*vehicle.Rocket, error) {
	t := f.Template.withDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	if f.TankLength <= 0 {
		return nil, fmt.Errorf("factory: %q needs a positive tank length budget", t.Name)
	}

	diameter, err := solver.Solve(func(d float64) (float64, error) {
		bt, err := f.burnTimeAt(t, d)
		if err != nil {
			return 0, err
		}
		return bt - f.Target, nil
	}, f.Bounds[0], f.Bounds[1], t.Solver)
	if err != nil {
		return nil, err
	}

	p := f.Params
	p.Diameter = diameter
	p.BurnTime, err = f.burnTimeAt(t, diameter)
	if err != nil {
		return nil, err
	}
	return t.Build(p)
}

// EPSPressureFactory closes the initial pressurant pressure against a
// target pressurant vessel volume: a higher storage pressure packs the
// blowdown reserve into a smaller bottle.
type EPSPressureFactory struct {
	Template     Template
	Params       vehicle.Parameters // PressurantPressure is derived
	TargetVolume float64            // pressurant vessel volume, m^3
	Bounds       [2]float64         // pressure bracket, Pa
}

// Build solves the pressurant pressure and closes the design.
func (f *EPSPressureFactory) Build() (*vehicle.Rocket, error) {
	t := f.Template.withDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	fp, err := t.sizeFeed(f.Params)
	if err != nil {
		return nil, err
	}

	pressure, err := solver.Solve(func(pp float64) (float64, error) {
		vol, _, _, err := t.pressurantPoint(fp, pp)
		if err != nil {
			return 0, err
		}
		return vol - f.TargetVolume, nil
	}, f.Bounds[0], f.Bounds[1], t.Solver)
	if err != nil {
		return nil, err
	}

	p := f.Params
	p.PressurantPressure = pressure
	return t.Build(p)
}

// OFRatioFactory closes the mixture ratio against the rated thrust at a
// target propellant tank pressure. The tank pressure fixes the chamber
// pressure through the feed losses; the mixture ratio is then the only
// lever left to make the engine deliver the rated thrust at its design
// mass flow.
type OFRatioFactory struct {
	Template     Template
	Params       vehicle.Parameters // MixtureRatio and ChamberPressure are derived
	TankPressure float64            // target oxidizer tank pressure, Pa
	MassFlow     float64            // design total mass flow, kg/s
	Bounds       [2]float64         // O/F bracket
}

// Build solves the mixture ratio and closes the design.
func (f *OFRatioFactory) Build() (*vehicle.Rocket, error) {
	t := f.Template.withDefaults()
	if err := t.validate(); err != nil {
		return nil, err
	}
	if f.MassFlow <= 0 {
		return nil, fmt.Errorf("factory: %q needs a positive design mass flow", t.Name)
	}

	chamber := f.TankPressure / ((1 + t.LineLoss) * (1 + t.RegenLoss) * (1 + t.InjectorLoss))
	ispModel := t.ispModel(f.Params.ExpansionRatio)

	ratio, err := solver.Solve(func(of float64) (float64, error) {
		isp, err := ispModel.Evaluate(model.Input{X: of, Y: chamber, Ambient: seaLevelPressure})
		if err != nil {
			return 0, err
		}
		return f.MassFlow*isp*vehicle.StandardGravity - f.Params.Thrust, nil
	}, f.Bounds[0], f.Bounds[1], t.Solver)
	if err != nil {
		return nil, err
	}

	p := f.Params
	p.MixtureRatio = ratio
	p.ChamberPressure = chamber
	return t.Build(p)
}
