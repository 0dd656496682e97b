// internal/storage/storage.go
package storage

import "github.com/L1xtopher/hytempo/internal/trajectory"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management (StartRun assigns the ID to the passed pointer)
	StartRun(run *trajectory.Run) error
	EndRun(runID uint) error

	// Trajectory recording
	RecordStates(runID uint, records []trajectory.Record) error
	RecordSummary(runID uint, summary trajectory.Summary) error
}

// Exportable is an optional interface for storage backends that produce
// files suitable for post-processing.
type Exportable interface {
	GetExportedFilePath() string
}
