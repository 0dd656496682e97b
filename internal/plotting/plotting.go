// Package plotting renders flight profiles of one or more runs to image
// files. The output format is picked from the file extension (.png, .svg,
// .pdf).
package plotting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/L1xtopher/hytempo/internal/trajectory"
)

// AltitudeProfile writes altitude over time for the given runs, keyed by
// run name.
func AltitudeProfile(path string, runs map[string][]trajectory.Record) error {
	return profile(path, "Altitude profile", "Altitude [m]", runs,
		func(r trajectory.Record) float64 { return r.Altitude })
}

// VelocityProfile writes velocity over time for the given runs.
func VelocityProfile(path string, runs map[string][]trajectory.Record) error {
	return profile(path, "Velocity profile", "Velocity [m/s]", runs,
		func(r trajectory.Record) float64 { return r.Velocity })
}

// MassProfile writes vehicle mass over time for the given runs.
func MassProfile(path string, runs map[string][]trajectory.Record) error {
	return profile(path, "Mass profile", "Mass [kg]", runs,
		func(r trajectory.Record) float64 { return r.Mass })
}

func profile(path, title, yLabel string, runs map[string][]trajectory.Record, value func(trajectory.Record) float64) error {
	if len(runs) == 0 {
		return fmt.Errorf("no runs to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	// sorted for a stable legend and color assignment
	names := make([]string, 0, len(runs))
	for name := range runs {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]interface{}, 0, len(runs)*2)
	for _, name := range names {
		args = append(args, name, points(runs[name], value))
	}
	if err := plotutil.AddLines(p, args...); err != nil {
		return fmt.Errorf("failed to add lines: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create plot directory: %w", err)
		}
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

func points(records []trajectory.Record, value func(trajectory.Record) float64) plotter.XYs {
	xys := make(plotter.XYs, len(records))
	for i, r := range records {
		xys[i].X = r.Time
		xys[i].Y = value(r)
	}
	return xys
}
