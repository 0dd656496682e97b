// Package cea supplies combustion-derived engine performance. It stands in
// for an external combustion-equilibrium code: chamber properties
// (characteristic velocity and ratio of specific heats) come from
// pre-computed tables over the operating point, and the nozzle expansion to
// the actual area ratio and ambient pressure is an isentropic one-dimensional
// correction applied on top.
package cea

import (
	"errors"
	"fmt"
	"math"

	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/L1xtopher/hytempo/internal/solver"
)

const g0 = 9.80665

// RangeError reports an operating point outside the tabulated domain of the
// combustion data.
type RangeError struct {
	Propellants string
	Err         error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("cea: %s: operating point outside tabulated domain: %v", e.Propellants, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// BipropTable is a combustion-equilibrium backend for a fixed
// oxidizer/fuel combination. Chamber data is tabulated over chamber
// pressure (x axis) and mixture ratio (y axis).
type BipropTable struct {
	Propellants string

	cstar *model.Table2D // characteristic velocity, m/s
	gamma *model.Table2D // ratio of specific heats of the exhaust
}

// NewBipropTable builds a bipropellant backend from chamber-property grids.
// Both grids must share the (chamber pressure, mixture ratio) axes.
func NewBipropTable(propellants string, cstar, gamma *model.Table2D) *BipropTable {
	return &BipropTable{Propellants: propellants, cstar: cstar, gamma: gamma}
}

// AmbientISP returns the specific impulse in seconds delivered at the
// requested operating point.
func (t *BipropTable) AmbientISP(req model.ISPRequest) (float64, error) {
	in := model.Input{X: req.ChamberPressure, Y: req.MixtureRatio}
	cstar, err := t.cstar.Evaluate(in)
	if err != nil {
		return 0, &RangeError{Propellants: t.Propellants, Err: err}
	}
	gamma, err := t.gamma.Evaluate(in)
	if err != nil {
		return 0, &RangeError{Propellants: t.Propellants, Err: err}
	}
	return expandNozzle(cstar, gamma, req)
}

// SolidTable is a combustion-equilibrium backend for a fixed solid
// propellant. Chamber data depends on chamber pressure only.
type SolidTable struct {
	Propellant string

	cstar *model.Table1D
	gamma *model.Table1D
}

// NewSolidTable builds a solid-propellant backend from chamber-property
// curves over chamber pressure.
func NewSolidTable(propellant string, cstar, gamma *model.Table1D) *SolidTable {
	return &SolidTable{Propellant: propellant, cstar: cstar, gamma: gamma}
}

// AmbientISP returns the specific impulse in seconds delivered at the
// requested operating point. The mixture ratio of the request is ignored.
func (t *SolidTable) AmbientISP(req model.ISPRequest) (float64, error) {
	in := model.Input{X: req.ChamberPressure}
	cstar, err := t.cstar.Evaluate(in)
	if err != nil {
		return 0, &RangeError{Propellants: t.Propellant, Err: err}
	}
	gamma, err := t.gamma.Evaluate(in)
	if err != nil {
		return 0, &RangeError{Propellants: t.Propellant, Err: err}
	}
	return expandNozzle(cstar, gamma, req)
}

// expandNozzle converts chamber conditions to delivered specific impulse at
// the requested expansion ratio and ambient pressure:
//
//	Isp = c* Cf / g0
//
// with the thrust coefficient from the isentropic flow relations. The exit
// Mach number is recovered from the area ratio by a bracketed solve of the
// area-Mach relation on the supersonic branch.
func expandNozzle(cstar, gamma float64, req model.ISPRequest) (float64, error) {
	if req.ExpansionRatio < 1 {
		return 0, errors.New("cea: expansion ratio below 1")
	}
	me, err := exitMach(gamma, req.ExpansionRatio)
	if err != nil {
		return 0, err
	}

	// exit static pressure from the exit Mach number
	pe := req.ChamberPressure * math.Pow(1+(gamma-1)/2*me*me, -gamma/(gamma-1))

	g := gamma
	cf := math.Sqrt(2*g*g/(g-1)*
		math.Pow(2/(g+1), (g+1)/(g-1))*
		(1-math.Pow(pe/req.ChamberPressure, (g-1)/g))) +
		req.ExpansionRatio*(pe-req.AmbientPressure)/req.ChamberPressure

	if cf < 0 {
		// grossly overexpanded nozzle, no useful thrust at this ambient
		cf = 0
	}
	return cstar * cf / g0, nil
}

// exitMach solves the area-Mach relation for the supersonic exit Mach
// number matching the expansion ratio.
func exitMach(gamma, eps float64) (float64, error) {
	areaRatio := func(me float64) (float64, error) {
		g := gamma
		return 1 / me * math.Pow(2/(g+1)*(1+(g-1)/2*me*me), (g+1)/(2*(g-1))) - eps, nil
	}
	me, err := solver.Solve(areaRatio, 1.0001, 50, solver.Options{Tol: 1e-9, MaxIter: 200})
	if err != nil {
		return 0, fmt.Errorf("cea: exit Mach for expansion ratio %g: %w", eps, err)
	}
	return me, nil
}
