// Package gormstorage implements the storage.Backend interface using GORM
// with internal queues and a background DB writer goroutine. It serves both
// the Postgres and the SQLite dialect; which one is used is decided by the
// database manager's connection fallback.
package gormstorage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/L1xtopher/hytempo/internal/database"
	"github.com/L1xtopher/hytempo/internal/logging"
	"github.com/L1xtopher/hytempo/internal/queue"
	"github.com/L1xtopher/hytempo/internal/trajectory"
)

// writeInterval is the pause between queue drains of the DB writer.
const writeInterval = 500 * time.Millisecond

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	States    *queue.Queue[State]
	Summaries *queue.Queue[Summary]
}

func newQueues() *queues {
	return &queues{
		States:    queue.New[State](),
		Summaries: queue.New[Summary](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	manager  *database.Manager
	queues   *queues
	stopChan chan struct{}
	dbReady  bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB
// writer goroutine. If no DB was injected via Dependencies, it connects via
// the database manager, falling back to in-memory SQLite when Postgres is
// unreachable.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		mgr := database.NewManager(zerolog.New(os.Stderr).With().Timestamp().Logger())
		if err := mgr.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		b.manager = mgr
		b.deps.DB = mgr.DB
	} else {
		mgr := database.NewManager(zerolog.Nop())
		mgr.DB = b.deps.DB
		mgr.IsValid = true
		b.manager = mgr
	}

	if err := b.manager.Setup(DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.dbReady = true

	b.startDBWriter()
	return nil
}

// Close stops the DB writer goroutine, flushes pending writes and, when
// running on the in-memory SQLite fallback, dumps the database to disk.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		b.stopChan = nil
	}
	b.flush()

	if b.manager != nil && b.manager.ShouldSaveLocal {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			return fmt.Errorf("failed to dump database to disk: %w", err)
		}
	}
	return nil
}

// StartRun inserts the run synchronously because callers need the
// DB-assigned ID for every later state write.
func (b *Backend) StartRun(run *trajectory.Run) error {
	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal run params: %w", err)
	}

	row := Run{
		Name:           run.Name,
		StartedAt:      run.StartedAt,
		Params:         params,
		DryMass:        run.DryMass,
		WetMass:        run.WetMass,
		PropellantMass: run.PropellantMass,
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	run.ID = row.ID
	return nil
}

// EndRun flushes all queued writes for the run.
func (b *Backend) EndRun(runID uint) error {
	b.flush()
	return nil
}

// RecordStates converts trajectory records to rows and queues them.
func (b *Backend) RecordStates(runID uint, records []trajectory.Record) error {
	rows := make([]State, len(records))
	for i, r := range records {
		rows[i] = State{
			RunID:        runID,
			Time:         r.Time,
			Altitude:     r.Altitude,
			Velocity:     r.Velocity,
			Acceleration: r.Acceleration,
			Mass:         r.Mass,
			Mach:         r.Mach,
			Phase:        r.Phase.String(),
		}
	}
	b.queues.States.Push(rows...)
	return nil
}

// RecordSummary converts and queues a flight summary.
func (b *Backend) RecordSummary(runID uint, summary trajectory.Summary) error {
	b.queues.Summaries.Push(Summary{
		RunID:       runID,
		Apogee:      summary.Apogee,
		ApogeeTime:  summary.ApogeeTime,
		MaxVelocity: summary.MaxVelocity,
		MaxMach:     summary.MaxMach,
		BurnoutTime: summary.BurnoutTime,
		FlightTime:  summary.FlightTime,
	})
	return nil
}

// writeQueue writes all items from a queue to the database in a transaction.
// Failed batches are requeued for the next drain.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *slog.Logger) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.GetAndEmpty()
	if err := tx.Create(&items).Error; err != nil {
		log.Error("Failed to write batch", "model", name, "count", len(items), "error", err)
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
}

// flush drains all queues into the DB.
func (b *Backend) flush() {
	if !b.dbReady {
		return
	}
	log := b.deps.LogManager.Logger()
	writeQueue(b.deps.DB, b.queues.States, "states", log)
	writeQueue(b.deps.DB, b.queues.Summaries, "summaries", log)
}

// startDBWriter starts the background goroutine that periodically drains
// queues into the DB.
func (b *Backend) startDBWriter() {
	stop := b.stopChan
	go func() {
		ticker := time.NewTicker(writeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				b.flush()
			}
		}
	}()
}
