package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/L1xtopher/hytempo/internal/aero"
	"github.com/L1xtopher/hytempo/internal/atmosphere"
	"github.com/L1xtopher/hytempo/internal/cea"
	"github.com/L1xtopher/hytempo/internal/config"
	"github.com/L1xtopher/hytempo/internal/factory"
	"github.com/L1xtopher/hytempo/internal/fluid"
	"github.com/L1xtopher/hytempo/internal/geo"
	"github.com/L1xtopher/hytempo/internal/model"
	"github.com/L1xtopher/hytempo/internal/plotting"
	"github.com/L1xtopher/hytempo/internal/storage"
	"github.com/L1xtopher/hytempo/internal/trajectory"
	"github.com/L1xtopher/hytempo/internal/vehicle"
	"github.com/L1xtopher/hytempo/internal/worker"
)

// run closes the configured design family, simulates every member and
// records the flights through the configured storage backend.
func run(ctx context.Context, runName string) error {
	tmpl, err := buildTemplate(runName)
	if err != nil {
		return fmt.Errorf("failed to assemble template: %w", err)
	}

	pool := worker.NewPool(worker.Dependencies{
		LogManager: SlogManager,
		Workers:    config.GetInt("swarm.workers"),
	})

	rockets, err := buildRockets(ctx, tmpl, pool)
	if err != nil {
		return fmt.Errorf("failed to close design: %w", err)
	}
	Logger.Info("Design closed", "rockets", len(rockets))

	backend, err := storage.NewBackend(config.Storage(), SlogManager)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Warn("Failed to close storage backend", "error", err)
		}
	}()

	profiles, err := simulate(ctx, pool, rockets, backend)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return errors.New("no flight finished")
	}

	if err := writePlots(profiles); err != nil {
		Logger.Warn("Failed to write plots", "error", err)
	}
	if err := writeGroundTracks(profiles); err != nil {
		Logger.Warn("Failed to write ground tracks", "error", err)
	}
	return nil
}

// buildTemplate assembles the shared design family from configuration: CEA
// and drag tables from disk, fluids from the built-in library.
func buildTemplate(name string) (factory.Template, error) {
	policy, err := tablePolicy()
	if err != nil {
		return factory.Template{}, err
	}

	pair := fmt.Sprintf("%s/%s", config.GetString("template.oxidizer"), config.GetString("template.fuel"))
	ispTable, err := cea.LoadBipropFile(config.GetString("data.ceaTable"), pair, policy)
	if err != nil {
		return factory.Template{}, fmt.Errorf("failed to load CEA table: %w", err)
	}

	drag, err := aero.LoadDragMapFile(config.GetString("data.dragTable"), policy)
	if err != nil {
		return factory.Template{}, fmt.Errorf("failed to load drag map: %w", err)
	}

	return factory.Template{
		Name:         name,
		Fuel:         config.GetString("template.fuel"),
		Oxidizer:     config.GetString("template.oxidizer"),
		Pressurant:   config.GetString("template.pressurant"),
		Fluids:       fluid.DefaultLibrary(),
		ISP:          ispTable,
		Drag:         drag,
		EngineMass:   config.GetFloat64("template.engineMass"),
		EngineLength: config.GetFloat64("template.engineLength"),
	}, nil
}

func tablePolicy() (model.Policy, error) {
	switch strings.ToLower(config.GetString("data.policy")) {
	case "fail", "":
		return model.Fail, nil
	case "clamp":
		return model.Clamp, nil
	default:
		return model.Fail, fmt.Errorf("unknown table policy %q", config.GetString("data.policy"))
	}
}

// buildRockets closes the configured design. With design.close set, one of
// the inverse factories solves its free variable against design.closeTarget
// inside design.closeBounds and yields a single rocket. Otherwise the swarm
// spec is sampled; with no varied axes it collapses to one member.
func buildRockets(ctx context.Context, tmpl factory.Template, pool *worker.Pool) ([]*vehicle.Rocket, error) {
	mode := config.GetString("design.close")
	if mode == "" {
		return factory.BuildSwarm(ctx, buildSwarmSpec(tmpl), pool)
	}

	p := designPoint()
	target := config.GetFloat64("design.closeTarget")
	bounds := [2]float64{
		config.GetFloat64("design.closeBounds.min"),
		config.GetFloat64("design.closeBounds.max"),
	}

	var (
		rocket *vehicle.Rocket
		err    error
	)
	switch mode {
	case "burnTime":
		f := &factory.BurnTimeFactory{
			Template:   tmpl,
			Params:     p,
			TankLength: config.GetFloat64("design.tankLength"),
			Target:     target,
			Bounds:     bounds,
		}
		rocket, err = f.Build()
	case "epsPressure":
		f := &factory.EPSPressureFactory{
			Template:     tmpl,
			Params:       p,
			TargetVolume: target,
			Bounds:       bounds,
		}
		rocket, err = f.Build()
	case "ofRatio":
		f := &factory.OFRatioFactory{
			Template:     tmpl,
			Params:       p,
			TankPressure: target,
			MassFlow:     config.GetFloat64("design.massFlow"),
			Bounds:       bounds,
		}
		rocket, err = f.Build()
	default:
		return nil, fmt.Errorf("unknown closure mode %q", mode)
	}
	if err != nil {
		return nil, err
	}
	return []*vehicle.Rocket{rocket}, nil
}

// designPoint reads the fixed design variables.
func designPoint() vehicle.Parameters {
	return vehicle.Parameters{
		Diameter:           config.GetFloat64("design.diameter"),
		BurnTime:           config.GetFloat64("design.burnTime"),
		Thrust:             config.GetFloat64("design.thrust"),
		MixtureRatio:       config.GetFloat64("design.mixtureRatio"),
		ChamberPressure:    config.GetFloat64("design.chamberPressure"),
		ExpansionRatio:     config.GetFloat64("design.expansionRatio"),
		PressurantPressure: config.GetFloat64("design.pressurantPressure"),
	}
}

// buildSwarmSpec reads the design point. Each design variable turns into a
// varied axis when swarm.vary.<name> bounds are configured, otherwise it
// stays fixed. With no varied axes the swarm collapses to a single rocket.
func buildSwarmSpec(tmpl factory.Template) factory.SwarmSpec {
	return factory.SwarmSpec{
		Template:           tmpl,
		Diameter:           designParam("diameter"),
		BurnTime:           designParam("burnTime"),
		Thrust:             designParam("thrust"),
		MixtureRatio:       designParam("mixtureRatio"),
		ChamberPressure:    designParam("chamberPressure"),
		ExpansionRatio:     designParam("expansionRatio"),
		PressurantPressure: designParam("pressurantPressure"),
		Count:              config.GetInt("swarm.count"),
		Seed:               uint64(config.GetInt("swarm.seed")),
	}
}

func designParam(name string) factory.Param {
	varyKey := "swarm.vary." + name
	if viper.IsSet(varyKey+".min") && viper.IsSet(varyKey+".max") {
		return factory.Vary(viper.GetFloat64(varyKey+".min"), viper.GetFloat64(varyKey+".max"))
	}
	return factory.Fixed(viper.GetFloat64("design." + name))
}

// simulate flies every rocket on the worker pool and records the results.
// A member whose flight aborts is logged and skipped; it does not take the
// batch down.
func simulate(ctx context.Context, pool *worker.Pool, rockets []*vehicle.Rocket, backend storage.Backend) (map[string][]trajectory.Record, error) {
	opts := trajectory.Options{
		Step:           config.GetFloat64("simulation.step"),
		MaxSteps:       config.GetInt("simulation.maxSteps"),
		LaunchAltitude: config.GetFloat64("simulation.launchAltitude"),
	}
	atmos := atmosphere.NewISA(model.Fail)

	var mu sync.Mutex
	profiles := make(map[string][]trajectory.Record)

	err := pool.Run(ctx, len(rockets), func(ctx context.Context, i int) error {
		rocket := rockets[i]

		est, err := trajectory.NewEstimator(rocket, atmos, opts)
		if err != nil {
			return err
		}

		records, err := est.Run()
		if err != nil {
			var simErr *trajectory.SimulationError
			if errors.As(err, &simErr) {
				Logger.Warn("Flight aborted",
					"rocket", rocket.Name(),
					"reason", simErr.Reason,
					"time", simErr.Time)
				return nil
			}
			return err
		}

		run := trajectory.NewRun(rocket)
		if err := backend.StartRun(run); err != nil {
			return err
		}
		if err := backend.RecordStates(run.ID, records); err != nil {
			return err
		}
		summary := trajectory.Summarize(records)
		if err := backend.RecordSummary(run.ID, summary); err != nil {
			return err
		}
		if err := backend.EndRun(run.ID); err != nil {
			return err
		}

		Logger.Info("Flight recorded",
			"rocket", rocket.Name(),
			"apogee", summary.Apogee,
			"flightTime", summary.FlightTime)

		mu.Lock()
		profiles[rocket.Name()] = records
		mu.Unlock()
		return nil
	})
	return profiles, err
}

func writePlots(profiles map[string][]trajectory.Record) error {
	plotsDir := config.GetString("output.plotsDir")
	if plotsDir == "" {
		return nil
	}

	if err := plotting.AltitudeProfile(filepath.Join(plotsDir, "altitude.png"), profiles); err != nil {
		return err
	}
	if err := plotting.VelocityProfile(filepath.Join(plotsDir, "velocity.png"), profiles); err != nil {
		return err
	}
	return plotting.MassProfile(filepath.Join(plotsDir, "mass.png"), profiles)
}

// writeGroundTracks exports one WKT line per flight when a launch site is
// configured.
func writeGroundTracks(profiles map[string][]trajectory.Record) error {
	lat := config.GetFloat64("site.latitude")
	long := config.GetFloat64("site.longitude")
	if lat == 0 && long == 0 {
		return nil
	}

	site := geo.Site{
		Longitude: long,
		Latitude:  lat,
		Elevation: config.GetFloat64("site.elevation"),
	}

	plotsDir := config.GetString("output.plotsDir")
	if err := os.MkdirAll(plotsDir, 0755); err != nil {
		return err
	}

	for name, records := range profiles {
		wkt, err := geo.GroundTrackWKT(site, records)
		if err != nil {
			return fmt.Errorf("failed to build ground track for %s: %w", name, err)
		}
		path := filepath.Join(plotsDir, fmt.Sprintf("%s.wkt", name))
		if err := os.WriteFile(path, []byte(wkt), 0644); err != nil {
			return err
		}
	}
	return nil
}
