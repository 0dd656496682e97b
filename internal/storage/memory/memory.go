// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/L1xtopher/hytempo/internal/config"
	"github.com/L1xtopher/hytempo/internal/trajectory"
)

// RunRecord groups a run with all its time-series data
type RunRecord struct {
	Run     trajectory.Run
	States  []trajectory.Record
	Summary *trajectory.Summary
}

// Backend stores run data in memory and exports to JSON
type Backend struct {
	cfg  config.MemoryConfig
	runs map[uint]*RunRecord // keyed by run ID

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:  cfg,
		runs: make(map[uint]*RunRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartRun registers a new run and assigns its ID
func (b *Backend) StartRun(run *trajectory.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	run.ID = b.idCounter

	b.runs[run.ID] = &RunRecord{
		Run:    *run,
		States: make([]trajectory.Record, 0),
	}
	return nil
}

// RecordStates appends trajectory records to a run
func (b *Backend) RecordStates(runID uint, records []trajectory.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.runs[runID]
	if !ok {
		return fmt.Errorf("unknown run ID %d", runID)
	}
	rec.States = append(rec.States, records...)
	return nil
}

// RecordSummary stores the flight summary for a run
func (b *Backend) RecordSummary(runID uint, summary trajectory.Summary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.runs[runID]
	if !ok {
		return fmt.Errorf("unknown run ID %d", runID)
	}
	rec.Summary = &summary
	return nil
}

// EndRun finalizes a run and exports it to a JSON file
func (b *Backend) EndRun(runID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.runs[runID]
	if !ok {
		return fmt.Errorf("unknown run ID %d", runID)
	}
	return b.exportJSON(rec)
}

// GetRun looks up a run record by ID
func (b *Backend) GetRun(runID uint) (*RunRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rec, ok := b.runs[runID]
	return rec, ok
}

// GetExportedFilePath returns the path of the most recent export
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
