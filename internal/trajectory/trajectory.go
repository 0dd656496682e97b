// Package trajectory integrates the vertical flight path of a rocket from
// ignition to ground impact. The flight is modelled as a one-dimensional
// point mass: altitude and velocity are advanced by a fixed-step fourth-order
// Runge-Kutta scheme, mass follows the exact propellant bookkeeping of the
// vehicle, and an explicit phase state machine is layered on top of the
// continuous dynamics.
package trajectory

import (
	"context"
	"fmt"
	"math"

	"github.com/L1xtopher/hytempo/internal/atmosphere"
	"github.com/L1xtopher/hytempo/internal/vehicle"
)

// Record is one integration step of a simulated flight.
type Record struct {
	Time         float64 `json:"time"`
	Altitude     float64 `json:"altitude"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Mass         float64 `json:"mass"`
	Mach         float64 `json:"mach"`
	Phase        Phase   `json:"phase"`
}

// SimulationError reports an aborted flight simulation. LastValid holds the
// last state that was still finite and physical.
type SimulationError struct {
	Reason    string
	Time      float64
	LastValid Record
	Err       error
}

func (e *SimulationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("simulation aborted at t=%.3fs: %s: %v", e.Time, e.Reason, e.Err)
	}
	return fmt.Sprintf("simulation aborted at t=%.3fs: %s", e.Time, e.Reason)
}

func (e *SimulationError) Unwrap() error { return e.Err }

// Options tune the integrator.
type Options struct {
	// Step is the fixed integration step in seconds.
	Step float64
	// MaxSteps bounds the number of integration steps. The budget is
	// checked once per step and doubles as the cancellation mechanism.
	MaxSteps int
	// LaunchAltitude is the altitude of the pad above sea level in meters.
	// Atmospheric lookups use pad altitude plus flight altitude.
	LaunchAltitude float64
}

// DefaultOptions integrates at 20 Hz for up to 400 simulated seconds.
func DefaultOptions() Options {
	return Options{Step: 0.05, MaxSteps: 8000}
}

// Estimator runs flight simulations for a fixed rocket and atmosphere.
type Estimator struct {
	rocket *vehicle.Rocket
	atmos  atmosphere.Model
	opts   Options
}

// NewEstimator wires a rocket to an atmosphere model.
func NewEstimator(rocket *vehicle.Rocket, atmos atmosphere.Model, opts Options) (*Estimator, error) {
	if rocket == nil {
		return nil, fmt.Errorf("trajectory: rocket is nil")
	}
	if atmos == nil {
		return nil, fmt.Errorf("trajectory: atmosphere model is nil")
	}
	if opts.Step <= 0 {
		return nil, fmt.Errorf("trajectory: step must be positive, got %g", opts.Step)
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("trajectory: step budget must be positive, got %d", opts.MaxSteps)
	}
	return &Estimator{rocket: rocket, atmos: atmos, opts: opts}, nil
}

// point is the integrated part of the flight state. Mass is not integrated
// numerically: the flow models are pure functions of elapsed burn time, so
// vehicle.TotalMass gives the exact mass history without truncation error.
type point struct {
	altitude float64
	velocity float64
}

// derivative returns (d altitude/dt, d velocity/dt) at the given elapsed
// time. The phase machine does not feed back into the dynamics; thrust
// cutoff is governed by the burn window and the remaining propellant.
func (e *Estimator) derivative(elapsed float64, p point) (point, error) {
	atm, err := e.atmos.At(e.opts.LaunchAltitude + p.altitude)
	if err != nil {
		return point{}, err
	}

	mass := e.rocket.TotalMass(elapsed)
	eng := e.rocket.Engine()

	var thrust float64
	if eng.Burning(elapsed) && e.propellantRemaining(elapsed) > 0 {
		thrust, err = eng.Thrust(elapsed, atm.Pressure)
		if err != nil {
			return point{}, err
		}
	}

	mach := math.Abs(p.velocity) / atm.SpeedOfSound
	cd, err := e.rocket.DragCoefficient(mach)
	if err != nil {
		return point{}, err
	}
	// drag always opposes the direction of motion
	drag := 0.5 * atm.Density * p.velocity * p.velocity * cd * e.rocket.FrontalArea()
	if p.velocity < 0 {
		drag = -drag
	}

	accel := (thrust-drag)/mass - vehicle.StandardGravity
	return point{altitude: p.velocity, velocity: accel}, nil
}

func (e *Estimator) mach(p point) (float64, error) {
	atm, err := e.atmos.At(e.opts.LaunchAltitude + p.altitude)
	if err != nil {
		return 0, err
	}
	return math.Abs(p.velocity) / atm.SpeedOfSound, nil
}

func (e *Estimator) propellantRemaining(elapsed float64) float64 {
	return e.rocket.PropellantMass() - e.rocket.PropellantConsumed(elapsed)
}

// rk4 advances the point by one fixed step.
func (e *Estimator) rk4(elapsed float64, p point) (point, error) {
	h := e.opts.Step
	k1, err := e.derivative(elapsed, p)
	if err != nil {
		return point{}, err
	}
	k2, err := e.derivative(elapsed+h/2, euler(p, k1, h/2))
	if err != nil {
		return point{}, err
	}
	k3, err := e.derivative(elapsed+h/2, euler(p, k2, h/2))
	if err != nil {
		return point{}, err
	}
	k4, err := e.derivative(elapsed+h, euler(p, k3, h))
	if err != nil {
		return point{}, err
	}
	return point{
		altitude: p.altitude + h/6*(k1.altitude+2*k2.altitude+2*k3.altitude+k4.altitude),
		velocity: p.velocity + h/6*(k1.velocity+2*k2.velocity+2*k3.velocity+k4.velocity),
	}, nil
}

func euler(p, dp point, h float64) point {
	return point{altitude: p.altitude + h*dp.altitude, velocity: p.velocity + h*dp.velocity}
}

// Run simulates the flight from the pad until ground impact and returns one
// record per integration step, the first being the pad state at t = 0.
func (e *Estimator) Run() ([]Record, error) {
	ctx := context.Background()

	p := point{}
	phase := PhasePad
	records := make([]Record, 0, e.opts.MaxSteps+1)

	d0, err := e.derivative(0, p)
	if err != nil {
		return records, &SimulationError{Reason: "initial state evaluation failed", Err: err}
	}
	records = append(records, Record{Mass: e.rocket.WetMass(), Acceleration: d0.velocity, Phase: phase})

	burnTime := e.rocket.Engine().BurnTime()
	for step := 1; ; step++ {
		if step > e.opts.MaxSteps {
			last := records[len(records)-1]
			return records, &SimulationError{
				Reason:    fmt.Sprintf("step budget of %d exhausted before ground impact", e.opts.MaxSteps),
				Time:      last.Time,
				LastValid: last,
			}
		}

		elapsed := float64(step-1) * e.opts.Step
		next, err := e.rk4(elapsed, p)
		now := float64(step) * e.opts.Step
		if err != nil {
			last := records[len(records)-1]
			return records, &SimulationError{Reason: "model evaluation failed", Time: now, LastValid: last, Err: err}
		}
		if math.IsNaN(next.altitude) || math.IsInf(next.altitude, 0) ||
			math.IsNaN(next.velocity) || math.IsInf(next.velocity, 0) {
			last := records[len(records)-1]
			return records, &SimulationError{Reason: "state diverged to NaN or Inf", Time: now, LastValid: last}
		}

		mass := e.rocket.TotalMass(now)
		if mass <= 0 {
			last := records[len(records)-1]
			return records, &SimulationError{Reason: "total mass became non-positive", Time: now, LastValid: last}
		}

		phase = nextPhase(phase, now, next.altitude, next.velocity, burnTime, e.propellantRemaining(now))

		dn, err := e.derivative(now, next)
		if err != nil {
			last := records[len(records)-1]
			return records, &SimulationError{Reason: "model evaluation failed", Time: now, LastValid: last, Err: err}
		}
		mach, err := e.mach(next)
		if err != nil {
			last := records[len(records)-1]
			return records, &SimulationError{Reason: "model evaluation failed", Time: now, LastValid: last, Err: err}
		}

		p = next
		stepsTotal.Add(ctx, 1)
		records = append(records, Record{
			Time:         now,
			Altitude:     p.altitude,
			Velocity:     p.velocity,
			Acceleration: dn.velocity,
			Mass:         mass,
			Mach:         mach,
			Phase:        phase,
		})

		if phase == PhaseTerminal {
			flightsTotal.Add(ctx, 1)
			return records, nil
		}
	}
}

// Summary condenses a flight into its headline figures.
type Summary struct {
	Apogee      float64 `json:"apogee"`
	ApogeeTime  float64 `json:"apogeeTime"`
	MaxVelocity float64 `json:"maxVelocity"`
	MaxMach     float64 `json:"maxMach"`
	BurnoutTime float64 `json:"burnoutTime"`
	FlightTime  float64 `json:"flightTime"`
}

// Summarize scans a record slice for apogee, peak velocity, peak Mach,
// burnout and total flight time.
func Summarize(records []Record) Summary {
	var s Summary
	for _, r := range records {
		if r.Altitude > s.Apogee {
			s.Apogee = r.Altitude
			s.ApogeeTime = r.Time
		}
		if r.Velocity > s.MaxVelocity {
			s.MaxVelocity = r.Velocity
		}
		if r.Mach > s.MaxMach {
			s.MaxMach = r.Mach
		}
		if r.Phase == PhaseCoast && s.BurnoutTime == 0 {
			s.BurnoutTime = r.Time
		}
		s.FlightTime = r.Time
	}
	return s
}
