package trajectory

import (
	"time"

	"github.com/L1xtopher/hytempo/internal/vehicle"
)

// Run identifies one simulated flight of one vehicle. Storage backends
// assign the ID on StartRun and expect it back on every later call for
// that flight.
type Run struct {
	ID             uint
	Name           string
	StartedAt      time.Time
	Params         vehicle.Parameters
	DryMass        float64
	WetMass        float64
	PropellantMass float64
}

// NewRun captures the design point and mass breakdown of a rocket so a
// storage backend can persist them alongside the trajectory.
func NewRun(r *vehicle.Rocket) *Run {
	return &Run{
		Name:           r.Name(),
		StartedAt:      time.Now(),
		Params:         r.Params(),
		DryMass:        r.DryMass(),
		WetMass:        r.WetMass(),
		PropellantMass: r.PropellantMass(),
	}
}
