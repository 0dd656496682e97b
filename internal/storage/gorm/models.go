package gormstorage

import (
	"time"

	"gorm.io/datatypes"
)

// Run is the DB row for one simulated flight. Params holds the closed
// design point as JSON so the schema survives new design variables.
type Run struct {
	ID             uint   `gorm:"primarykey"`
	Name           string `gorm:"index"`
	StartedAt      time.Time
	Params         datatypes.JSON
	DryMass        float64
	WetMass        float64
	PropellantMass float64
}

// State is one trajectory sample of a run.
type State struct {
	ID           uint `gorm:"primarykey"`
	RunID        uint `gorm:"index"`
	Time         float64
	Altitude     float64
	Velocity     float64
	Acceleration float64
	Mass         float64
	Mach         float64
	Phase        string
}

// Summary is the per-run flight summary.
type Summary struct {
	ID          uint `gorm:"primarykey"`
	RunID       uint `gorm:"uniqueIndex"`
	Apogee      float64
	ApogeeTime  float64
	MaxVelocity float64
	MaxMach     float64
	BurnoutTime float64
	FlightTime  float64
}

// DatabaseModels lists all schemas the backend migrates.
var DatabaseModels = []any{
	&Run{},
	&State{},
	&Summary{},
}
