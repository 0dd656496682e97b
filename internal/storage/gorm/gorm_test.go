package gormstorage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L1xtopher/hytempo/internal/database"
	"github.com/L1xtopher/hytempo/internal/logging"
	"github.com/L1xtopher/hytempo/internal/trajectory"
	"github.com/L1xtopher/hytempo/internal/vehicle"
)

// newTestBackend creates a Backend on a file-based SQLite DB so tests do not
// share state through the shared in-memory cache.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	mgr := database.NewManager(zerolog.Nop())
	db, err := mgr.GetSqliteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	b := New(Dependencies{
		DB:         db,
		LogManager: logging.NewSlogManager(),
	})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func testRun(name string) *trajectory.Run {
	return &trajectory.Run{
		Name:      name,
		StartedAt: time.Date(2026, 3, 12, 10, 30, 0, 0, time.UTC),
		Params: vehicle.Parameters{
			Diameter:        0.16,
			BurnTime:        10,
			Thrust:          3000,
			MixtureRatio:    4,
			ChamberPressure: 3e6,
		},
		DryMass:        32,
		WetMass:        50,
		PropellantMass: 16,
	}
}

func TestStartRunAssignsID(t *testing.T) {
	b := newTestBackend(t)

	first := testRun("alpha")
	second := testRun("beta")

	require.NoError(t, b.StartRun(first))
	require.NoError(t, b.StartRun(second))

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	var count int64
	require.NoError(t, b.deps.DB.Model(&Run{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestParamsRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	run := testRun("alpha")
	require.NoError(t, b.StartRun(run))

	var row Run
	require.NoError(t, b.deps.DB.First(&row, run.ID).Error)

	var params vehicle.Parameters
	require.NoError(t, json.Unmarshal(row.Params, &params))
	assert.Equal(t, run.Params, params)
	assert.Equal(t, 50.0, row.WetMass)
}

func TestRecordStatesFlushedOnEndRun(t *testing.T) {
	b := newTestBackend(t)

	run := testRun("alpha")
	require.NoError(t, b.StartRun(run))

	records := []trajectory.Record{
		{Time: 0, Mass: 50, Phase: trajectory.PhasePad},
		{Time: 0.05, Altitude: 0.1, Velocity: 4, Mass: 49.9, Phase: trajectory.PhasePowered},
		{Time: 0.1, Altitude: 0.4, Velocity: 8, Mass: 49.8, Phase: trajectory.PhasePowered},
	}
	require.NoError(t, b.RecordStates(run.ID, records))
	require.NoError(t, b.EndRun(run.ID))

	var rows []State
	require.NoError(t, b.deps.DB.Where("run_id = ?", run.ID).Order("time").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, "PAD", rows[0].Phase)
	assert.Equal(t, "POWERED", rows[1].Phase)
	assert.Equal(t, 49.9, rows[1].Mass)
}

func TestRecordSummary(t *testing.T) {
	b := newTestBackend(t)

	run := testRun("alpha")
	require.NoError(t, b.StartRun(run))

	summary := trajectory.Summary{
		Apogee:      3200,
		ApogeeTime:  26,
		MaxVelocity: 310,
		BurnoutTime: 10,
		FlightTime:  78,
	}
	require.NoError(t, b.RecordSummary(run.ID, summary))
	require.NoError(t, b.EndRun(run.ID))

	var row Summary
	require.NoError(t, b.deps.DB.Where("run_id = ?", run.ID).First(&row).Error)
	assert.Equal(t, 3200.0, row.Apogee)
	assert.Equal(t, 78.0, row.FlightTime)
}

func TestCloseFlushesPendingWrites(t *testing.T) {
	mgr := database.NewManager(zerolog.Nop())
	db, err := mgr.GetSqliteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	b := New(Dependencies{DB: db, LogManager: logging.NewSlogManager()})
	require.NoError(t, b.Init())

	run := testRun("alpha")
	require.NoError(t, b.StartRun(run))
	require.NoError(t, b.RecordStates(run.ID, []trajectory.Record{{Time: 0, Mass: 50}}))
	require.NoError(t, b.Close())

	var count int64
	require.NoError(t, db.Model(&State{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEmptyRecordBatch(t *testing.T) {
	b := newTestBackend(t)

	run := testRun("alpha")
	require.NoError(t, b.StartRun(run))
	require.NoError(t, b.RecordStates(run.ID, nil))
	require.NoError(t, b.EndRun(run.ID))
}

func TestInitMigratesSchema(t *testing.T) {
	mgr := database.NewManager(zerolog.Nop())
	db, err := mgr.GetSqliteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	b := New(Dependencies{DB: db, LogManager: logging.NewSlogManager()})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	for _, m := range DatabaseModels {
		assert.True(t, db.Migrator().HasTable(m))
	}
	require.NotNil(t, b.manager)
	assert.True(t, b.manager.IsValid)
}

func TestCloseDumpsLocalFallbackToDisk(t *testing.T) {
	mgr := database.NewManager(zerolog.Nop())
	db, err := mgr.GetSqliteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	b := New(Dependencies{DB: db, LogManager: logging.NewSlogManager()})
	require.NoError(t, b.Init())

	run := testRun("alpha")
	require.NoError(t, b.StartRun(run))

	dumpPath := filepath.Join(t.TempDir(), "dump.db")
	b.manager.ShouldSaveLocal = true
	b.manager.SqliteFilePath = dumpPath
	require.NoError(t, b.Close())

	info, err := os.Stat(dumpPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
