// Package atmosphere supplies ambient air properties by altitude. The core
// consumes it through the Model interface; ISA implements the International
// Standard Atmosphere up to 80 km with no wind and no seasonal variability.
package atmosphere

import (
	"fmt"
	"math"

	"github.com/L1xtopher/hytempo/internal/model"
)

// State is the ambient air state at one altitude.
type State struct {
	Density      float64 // kg/m^3
	Temperature  float64 // K
	Pressure     float64 // Pa
	SpeedOfSound float64 // m/s
}

// Model yields the ambient state at a geometric altitude in meters above
// sea level.
type Model interface {
	At(altitude float64) (State, error)
}

// RangeError reports an altitude outside the modelled atmosphere.
type RangeError struct {
	Altitude float64
	Max      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("atmosphere: altitude %.0f m outside modelled range [0, %.0f]", e.Altitude, e.Max)
}

const (
	gasConstantAir = 287.05287 // J/(kg K)
	gamma          = 1.4
	g0             = 9.80665 // m/s^2

	// MaxAltitude is the top of the modelled atmosphere.
	MaxAltitude = 80000.0
)

// isaLayer is one constant-lapse-rate layer of the standard atmosphere.
// Base pressure values follow from integrating the hydrostatic equation
// layer by layer.
type isaLayer struct {
	baseAltitude float64 // m
	baseTemp     float64 // K
	basePressure float64 // Pa
	lapseRate    float64 // K/m
}

var isaLayers = []isaLayer{
	{0, 288.15, 101325.0, -0.0065},
	{11000, 216.65, 22632.06, 0},
	{20000, 216.65, 5474.889, 0.001},
	{32000, 228.65, 868.0187, 0.0028},
	{47000, 270.65, 110.9063, 0},
	{51000, 270.65, 66.93887, -0.0028},
	{71000, 214.65, 3.956420, -0.002},
}

// ISA is the International Standard Atmosphere, sea level to 80 km.
type ISA struct {
	policy model.Policy
}

// NewISA returns a standard atmosphere. The policy controls access above the
// modelled ceiling: Clamp substitutes the 80 km state (effectively vacuum
// for drag purposes), Fail reports a *RangeError. Altitudes below sea level
// always clamp to sea level; the trajectory code terminates at ground
// contact anyway and intermediate integrator stages may dip slightly below
// zero.
func NewISA(policy model.Policy) *ISA {
	return &ISA{policy: policy}
}

// At evaluates the atmosphere at the given altitude in meters.
func (a *ISA) At(altitude float64) (State, error) {
	h := altitude
	if h < 0 {
		h = 0
	}
	if h > MaxAltitude {
		if a.policy == model.Fail {
			return State{}, &RangeError{Altitude: altitude, Max: MaxAltitude}
		}
		h = MaxAltitude
	}

	layer := isaLayers[0]
	for _, l := range isaLayers {
		if h < l.baseAltitude {
			break
		}
		layer = l
	}

	dh := h - layer.baseAltitude
	temp := layer.baseTemp + layer.lapseRate*dh

	var pressure float64
	if layer.lapseRate == 0 {
		pressure = layer.basePressure * math.Exp(-g0*dh/(gasConstantAir*layer.baseTemp))
	} else {
		pressure = layer.basePressure * math.Pow(temp/layer.baseTemp, -g0/(gasConstantAir*layer.lapseRate))
	}

	return State{
		Density:      pressure / (gasConstantAir * temp),
		Temperature:  temp,
		Pressure:     pressure,
		SpeedOfSound: math.Sqrt(gamma * gasConstantAir * temp),
	}, nil
}
