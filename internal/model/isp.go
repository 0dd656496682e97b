package model

// ISPRequest is an operating point handed to the combustion-equilibrium
// collaborator. MixtureRatio is the oxidizer/fuel mass ratio and is ignored
// for solid propellants.
type ISPRequest struct {
	ChamberPressure float64
	MixtureRatio    float64
	ExpansionRatio  float64
	AmbientPressure float64
}

// ISPSolver is the combustion-equilibrium collaborator as seen by the
// specific-impulse models. Implementations report operating points outside
// their tabulated range with an error, which the models wrap.
type ISPSolver interface {
	AmbientISP(req ISPRequest) (float64, error)
}

// BipropISP evaluates the specific impulse of a bipropellant engine from the
// oxidizer/fuel mass ratio (Input.X) and chamber pressure (Input.Y). The
// ambient pressure is taken from Input.Ambient. A non-positive chamber
// pressure yields zero impulse: the engine is not burning.
type BipropISP struct {
	Solver         ISPSolver
	Efficiency     float64
	ExpansionRatio float64
}

// Evaluate returns the delivered specific impulse in seconds.
func (m *BipropISP) Evaluate(in Input) (float64, error) {
	if in.Y <= 0 {
		return 0, nil
	}
	isp, err := m.Solver.AmbientISP(ISPRequest{
		ChamberPressure: in.Y,
		MixtureRatio:    in.X,
		ExpansionRatio:  m.ExpansionRatio,
		AmbientPressure: in.Ambient,
	})
	if err != nil {
		return 0, &EvaluationError{Op: "biprop isp", Err: err}
	}
	eff := m.Efficiency
	if eff == 0 {
		eff = 1
	}
	return eff * isp, nil
}

// Domain is delegated to the collaborator; the model itself accepts any
// operating point and surfaces range violations as evaluation errors.
func (m *BipropISP) Domain() Domain {
	return Domain{X: Unbounded(), Y: Unbounded()}
}

// SolidISP evaluates the specific impulse of a solid motor from the chamber
// pressure (Input.X). The propellant combination is fixed inside the solver.
type SolidISP struct {
	Solver         ISPSolver
	Efficiency     float64
	ExpansionRatio float64
}

// Evaluate returns the delivered specific impulse in seconds.
func (m *SolidISP) Evaluate(in Input) (float64, error) {
	if in.X <= 0 {
		return 0, nil
	}
	isp, err := m.Solver.AmbientISP(ISPRequest{
		ChamberPressure: in.X,
		ExpansionRatio:  m.ExpansionRatio,
		AmbientPressure: in.Ambient,
	})
	if err != nil {
		return 0, &EvaluationError{Op: "solid isp", Err: err}
	}
	eff := m.Efficiency
	if eff == 0 {
		eff = 1
	}
	return eff * isp, nil
}

// Domain is delegated to the collaborator.
func (m *SolidISP) Domain() Domain {
	return Domain{X: Unbounded(), Y: Unbounded()}
}
