package trajectory

// Phase is a flight phase of the ascent/descent state machine.
type Phase int

const (
	// PhasePad is the initial state: on the ground, engine not yet ignited.
	PhasePad Phase = iota
	// PhasePowered covers the burn: ignition until burnout or depletion.
	PhasePowered
	// PhaseCoast is the unpowered ascent from burnout to apogee.
	PhaseCoast
	// PhaseDescent is the fall from apogee to the ground.
	PhaseDescent
	// PhaseTerminal is ground impact; integration stops here.
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhasePad:
		return "pad"
	case PhasePowered:
		return "powered"
	case PhaseCoast:
		return "coast"
	case PhaseDescent:
		return "descent"
	case PhaseTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// guards for the phase transitions, kept as named predicates so each
// transition is testable in isolation.

// burnoutReached reports the end of the powered phase: the rated burn time
// has elapsed or the propellant is gone.
func burnoutReached(elapsed, burnTime, propellantRemaining float64) bool {
	return elapsed >= burnTime || propellantRemaining <= 0
}

// apogeeReached reports the positive-to-non-positive velocity crossing
// while still above ground.
func apogeeReached(velocity, altitude float64) bool {
	return velocity <= 0 && altitude > 0
}

// groundReached reports ground contact after leaving the pad.
func groundReached(altitude, elapsed float64) bool {
	return altitude <= 0 && elapsed > 0
}

// nextPhase advances the state machine by at most one transition per
// integration step.
func nextPhase(p Phase, elapsed, altitude, velocity, burnTime, propellantRemaining float64) Phase {
	switch p {
	case PhasePad:
		// ignition happens at t = 0+; the first step leaves the pad state
		return PhasePowered
	case PhasePowered:
		if groundReached(altitude, elapsed) && velocity <= 0 {
			return PhaseTerminal
		}
		if burnoutReached(elapsed, burnTime, propellantRemaining) {
			return PhaseCoast
		}
	case PhaseCoast:
		if groundReached(altitude, elapsed) {
			return PhaseTerminal
		}
		if apogeeReached(velocity, altitude) {
			return PhaseDescent
		}
	case PhaseDescent:
		if groundReached(altitude, elapsed) {
			return PhaseTerminal
		}
	}
	return p
}
