// Package influxstorage implements the storage.Backend interface by writing
// trajectory samples as InfluxDB points. Samples are timestamped relative to
// the run start so flights line up on a shared time axis in dashboards.
package influxstorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/rs/zerolog"

	"github.com/L1xtopher/hytempo/internal/influx"
	"github.com/L1xtopher/hytempo/internal/logging"
	"github.com/L1xtopher/hytempo/internal/trajectory"
)

const (
	trajectoryBucket  = "trajectories"
	summaryBucket     = "summaries"
	performanceBucket = "hytempo_performance"
)

// Backend implements storage.Backend on an InfluxDB manager. Run IDs are
// assigned locally; Influx itself only sees them as tags.
type Backend struct {
	manager *influx.Manager
	log     *logging.SlogManager

	mu        sync.Mutex
	idCounter uint
	runs      map[uint]*trajectory.Run
}

// New creates a new InfluxDB storage backend.
func New(log *logging.SlogManager) *Backend {
	return &Backend{
		log:  log,
		runs: make(map[uint]*trajectory.Run),
	}
}

// Init connects to InfluxDB. When the server is unreachable the manager
// falls back to a gzipped line-protocol backup file.
func (b *Backend) Init() error {
	backupPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("hytempo_influx_backup_%s.gz", time.Now().Format("20060102_150405")))
	b.manager = influx.NewManager(zerolog.New(os.Stderr).With().Timestamp().Logger(), backupPath)
	return b.manager.Connect()
}

// Close flushes and shuts down the InfluxDB client.
func (b *Backend) Close() error {
	if b.manager == nil {
		return nil
	}
	return b.manager.Close()
}

// StartRun assigns a local run ID used to tag all points of the flight.
func (b *Backend) StartRun(run *trajectory.Run) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	run.ID = b.idCounter
	b.runs[run.ID] = run
	return nil
}

// EndRun forgets the local run registration.
func (b *Backend) EndRun(runID uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.runs[runID]; !ok {
		return fmt.Errorf("unknown run ID %d", runID)
	}
	delete(b.runs, runID)
	return nil
}

// RecordStates writes one point per trajectory record, followed by a write
// performance point for the batch.
func (b *Backend) RecordStates(runID uint, records []trajectory.Record) error {
	run, err := b.getRun(runID)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()
	for _, r := range records {
		point := influxdb2.NewPoint(
			"trajectory",
			map[string]string{
				"run":   run.Name,
				"runId": fmt.Sprintf("%d", runID),
				"phase": r.Phase.String(),
			},
			map[string]interface{}{
				"altitude":     r.Altitude,
				"velocity":     r.Velocity,
				"acceleration": r.Acceleration,
				"mass":         r.Mass,
				"mach":         r.Mach,
			},
			run.StartedAt.Add(time.Duration(r.Time*float64(time.Second))),
		)
		if err := b.manager.WritePoint(ctx, trajectoryBucket, point); err != nil {
			return fmt.Errorf("failed to write trajectory point: %w", err)
		}
	}

	perf := influxdb2.NewPoint(
		"storage_performance",
		map[string]string{
			"run":   run.Name,
			"runId": fmt.Sprintf("%d", runID),
		},
		map[string]interface{}{
			"points":          len(records),
			"writeDurationMs": float64(time.Since(start).Microseconds()) / 1000.0,
		},
		time.Now(),
	)
	if err := b.manager.WritePoint(ctx, performanceBucket, perf); err != nil {
		return fmt.Errorf("failed to write performance point: %w", err)
	}
	return nil
}

// RecordSummary writes the flight summary as a single point.
func (b *Backend) RecordSummary(runID uint, summary trajectory.Summary) error {
	run, err := b.getRun(runID)
	if err != nil {
		return err
	}

	point := influxdb2.NewPoint(
		"flight_summary",
		map[string]string{
			"run":   run.Name,
			"runId": fmt.Sprintf("%d", runID),
		},
		map[string]interface{}{
			"apogee":      summary.Apogee,
			"apogeeTime":  summary.ApogeeTime,
			"maxVelocity": summary.MaxVelocity,
			"maxMach":     summary.MaxMach,
			"burnoutTime": summary.BurnoutTime,
			"flightTime":  summary.FlightTime,
			"wetMass":     run.WetMass,
			"dryMass":     run.DryMass,
		},
		run.StartedAt,
	)
	return b.manager.WritePoint(context.Background(), summaryBucket, point)
}

func (b *Backend) getRun(runID uint) (*trajectory.Run, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	run, ok := b.runs[runID]
	if !ok {
		return nil, fmt.Errorf("unknown run ID %d", runID)
	}
	return run, nil
}
