package model

// FluidState is the state of a propellant flow at one station of the feed
// system: mass flow in kg/s, temperature in K, pressure in Pa.
type FluidState struct {
	MassFlow    float64
	Temperature float64
	Pressure    float64
}

// FluidModel maps the fluid state at the inlet of a feed-system element to
// the state at its outlet.
type FluidModel interface {
	Flow(in FluidState) FluidState
}

// FluidConstant supplies a fixed outlet state regardless of the inlet. Tanks
// with a constant rated feed use it as their flow model.
type FluidConstant struct {
	MassFlow    float64
	Temperature float64
	Pressure    float64
}

// Flow returns the stored state.
func (f *FluidConstant) Flow(FluidState) FluidState {
	return FluidState{
		MassFlow:    f.MassFlow,
		Temperature: f.Temperature,
		Pressure:    f.Pressure,
	}
}

// FluidLinear applies an independent linear law to each component of the
// fluid state. Feed lines, regenerative cooling passages and injectors are
// modelled as pressure-gain terms below one.
type FluidLinear struct {
	MassFlowGain    float64
	MassFlowOffset  float64
	TempGain        float64
	TempOffset      float64
	PressureGain    float64
	PressureOffset  float64
}

// PressureDrop returns a FluidLinear passing mass flow and temperature
// through unchanged while scaling pressure by (1 - loss).
func PressureDrop(loss float64) *FluidLinear {
	return &FluidLinear{
		MassFlowGain: 1,
		TempGain:     1,
		PressureGain: 1 - loss,
	}
}

// Flow applies the linear laws to the inlet state.
func (f *FluidLinear) Flow(in FluidState) FluidState {
	return FluidState{
		MassFlow:    f.MassFlowGain*in.MassFlow + f.MassFlowOffset,
		Temperature: f.TempGain*in.Temperature + f.TempOffset,
		Pressure:    f.PressureGain*in.Pressure + f.PressureOffset,
	}
}
