package factory

import (
	"fmt"
	"math"

	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/L1xtopher/hytempo/internal/vehicle"
)

// Structural material constants for composite-overwrapped tanks and the
// hull tube.
const (
	cfrpDensity     = 1600.0 // kg/m^3
	aluminumDensity = 2700.0 // kg/m^3
)

// tankSpec is everything needed to size one pressure vessel.
type tankSpec struct {
	Fluid           string
	Role            vehicle.TankRole
	RocketDiameter  float64
	Safety          float64
	Volume          float64 // m^3 of fluid, before ullage
	Ullage          float64
	Pressure        float64
	Temperature     float64
	MassFlow        float64
	FluidMass       float64
	EndCapThickness float64
	LayerThickness  float64
	TensileStrength float64
}

// sizeTank turns a volume and pressure requirement into a tank with shell
// mass and length. The shell is a filament-wound cylinder with spherical
// aluminium-lined end caps. The wall follows Barlow's relation for
// cylindrical vessels, rounded up to whole winding layers; a vessel small
// enough to fit inside a sphere of the rocket diameter is built spherical
// instead, keeping the quantized cylindrical wall as a conservative bound.
func sizeTank(spec tankSpec) (*vehicle.Tank, error) {
	if spec.Volume <= 0 {
		return nil, fmt.Errorf("factory: %s tank volume must be positive, got %g", spec.Fluid, spec.Volume)
	}
	if spec.Pressure <= 0 {
		return nil, fmt.Errorf("factory: %s tank pressure must be positive, got %g", spec.Fluid, spec.Pressure)
	}

	volume := spec.Volume * (1 + spec.Ullage)

	wall := vehicle.ThinWallThickness(spec.Pressure, spec.RocketDiameter, spec.Safety, spec.TensileStrength)
	wall = math.Ceil(wall/spec.LayerThickness) * spec.LayerThickness

	innerDiamCyl := spec.RocketDiameter - 2*wall
	if innerDiamCyl <= 2*spec.EndCapThickness {
		return nil, fmt.Errorf("factory: %s tank wall of %g m leaves no bore in a %g m vessel",
			spec.Fluid, wall, spec.RocketDiameter)
	}
	innerDiamSphere := innerDiamCyl - 2*spec.EndCapThickness
	sphereVolume := 4.0 / 3.0 * math.Pi * math.Pow(innerDiamSphere/2, 3)

	outerDiam := spec.RocketDiameter
	cylVolume := volume - sphereVolume
	if cylVolume <= 0 {
		// the whole load fits in a sphere; shrink it to the required volume
		innerDiamSphere = math.Cbrt(6 * volume / math.Pi)
		sphereVolume = volume
		innerDiamCyl = innerDiamSphere + 2*spec.EndCapThickness
		outerDiam = innerDiamCyl + 2*wall
		cylVolume = 0
	}

	cylHeight := cylVolume / (math.Pi * math.Pow(innerDiamCyl/2, 2))

	capAluVolume := 4.0/3.0*math.Pi*math.Pow(innerDiamCyl/2, 3) - sphereVolume
	capCfrpVolume := 4.0 / 3.0 * math.Pi * (math.Pow(outerDiam/2, 3) - math.Pow(innerDiamCyl/2, 3))
	cylCfrpVolume := cylHeight * math.Pi * (math.Pow(outerDiam/2, 2) - math.Pow(innerDiamCyl/2, 2))

	shellMass := capAluVolume*aluminumDensity + (capCfrpVolume+cylCfrpVolume)*cfrpDensity

	return &vehicle.Tank{
		Name:        spec.Fluid + " tank",
		Role:        spec.Role,
		Fluid:       spec.Fluid,
		ShellMass:   shellMass,
		Volume:      volume,
		Ullage:      spec.Ullage,
		Pressure:    spec.Pressure,
		Temperature: spec.Temperature,
		FluidMass:   spec.FluidMass,
		Length:      outerDiam + cylHeight,
		InHull:      true,
		Feed: &model.FluidConstant{
			MassFlow:    spec.MassFlow,
			Temperature: spec.Temperature,
			Pressure:    spec.Pressure,
		},
	}, nil
}

// tankInnerVolume is the fluid capacity of a cylindrical tank of the given
// length at the given rocket diameter, the inverse of the sizing in
// sizeTank. Used by closures that fix the tank length and free the
// diameter.
func tankInnerVolume(length, rocketDiameter, pressure, safety, endCap, layer, tensile float64) float64 {
	wall := vehicle.ThinWallThickness(pressure, rocketDiameter, safety, tensile)
	wall = math.Ceil(wall/layer) * layer

	innerDiamCyl := rocketDiameter - 2*wall
	if innerDiamCyl <= 2*endCap {
		return 0
	}
	innerDiamSphere := innerDiamCyl - 2*endCap
	cylHeight := length - rocketDiameter
	if cylHeight < 0 {
		cylHeight = 0
	}
	sphere := 4.0 / 3.0 * math.Pi * math.Pow(innerDiamSphere/2, 3)
	cyl := cylHeight * math.Pi * math.Pow(innerDiamCyl/2, 2)
	return sphere + cyl
}

// pressurantVolume sizes the pressurant vessel for an isothermal blowdown
// from the initial pressure down to the propellant tank pressure: the
// expelled gas volume at tank pressure must cover the propellant tank
// volume.
func pressurantVolume(tankVolume, tankPressure, pressurantPressure float64) (float64, error) {
	if pressurantPressure <= tankPressure {
		return 0, fmt.Errorf("factory: pressurant pressure %g Pa does not exceed tank pressure %g Pa",
			pressurantPressure, tankPressure)
	}
	// isothermal ideal gas: density ratio equals pressure ratio
	return tankVolume / (pressurantPressure/tankPressure - 1), nil
}

// hullTube wraps the in-hull parts in a thin composite tube and returns it
// as a structural component.
func hullTube(length, diameter, wallThickness float64) vehicle.Component {
	outer := diameter / 2
	inner := outer - wallThickness
	mass := length * math.Pi * (outer*outer - inner*inner) * cfrpDensity
	return vehicle.Component{
		Name:   "hull tube",
		Mass:   mass,
		Length: length,
		InHull: false,
	}
}
