package factory

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/L1xtopher/hytempo/internal/vehicle"
	"github.com/L1xtopher/hytempo/internal/worker"
)

// Param is one swarm axis: either fixed at a value or sampled over a range.
type Param struct {
	Value    float64
	Min, Max float64
	Variable bool
}

// Fixed pins an axis to a single value.
func Fixed(v float64) Param { return Param{Value: v} }

// Vary samples an axis uniformly over [min, max].
func Vary(min, max float64) Param {
	return Param{Min: min, Max: max, Variable: true}
}

// SwarmSpec describes a family of design points to explore. Variable axes
// span a Latin-hypercube sample; fixed axes are shared by every member.
type SwarmSpec struct {
	Template Template

	Diameter           Param
	BurnTime           Param
	Thrust             Param
	MixtureRatio       Param
	ChamberPressure    Param
	ExpansionRatio     Param
	PressurantPressure Param

	// Count is the swarm size; 0 picks ten rockets per variable axis.
	Count int
	// Seed makes the sample reproducible.
	Seed uint64
}

func (s SwarmSpec) axes() []*Param {
	return []*Param{
		&s.Diameter, &s.BurnTime, &s.Thrust, &s.MixtureRatio,
		&s.ChamberPressure, &s.ExpansionRatio, &s.PressurantPressure,
	}
}

// sample draws the design points. Variable axes are stratified with Latin
// hypercube sampling so a small swarm still covers every range evenly.
func (s SwarmSpec) sample() []vehicle.Parameters {
	axes := s.axes()

	var varIdx []int
	var bounds []r1.Interval
	for i, a := range axes {
		if a.Variable {
			varIdx = append(varIdx, i)
			bounds = append(bounds, r1.Interval{Min: a.Min, Max: a.Max})
		}
	}

	n := s.Count
	if n == 0 {
		n = 10 * len(varIdx)
	}
	if n == 0 {
		n = 1
	}

	values := make([][]float64, n)
	for i := range values {
		row := make([]float64, len(axes))
		for j, a := range axes {
			row[j] = a.Value
		}
		values[i] = row
	}

	if len(varIdx) > 0 {
		src := rand.NewSource(s.Seed)
		sampler := samplemv.LatinHypercube{
			Q:   distmv.NewUniform(bounds, src),
			Src: src,
		}
		batch := mat.NewDense(n, len(varIdx), nil)
		sampler.Sample(batch)
		for i := 0; i < n; i++ {
			for k, j := range varIdx {
				values[i][j] = batch.At(i, k)
			}
		}
	}

	points := make([]vehicle.Parameters, n)
	for i, row := range values {
		points[i] = vehicle.Parameters{
			Diameter:           row[0],
			BurnTime:           row[1],
			Thrust:             row[2],
			MixtureRatio:       row[3],
			ChamberPressure:    row[4],
			ExpansionRatio:     row[5],
			PressurantPressure: row[6],
		}
	}
	return points
}

// BuildSwarm closes every sampled design point into a rocket, solving the
// members in parallel on the pool. A failed member fails the swarm; the
// solver's error is surfaced unchanged inside the pool's report.
func BuildSwarm(ctx context.Context, spec SwarmSpec, pool *worker.Pool) ([]*vehicle.Rocket, error) {
	points := spec.sample()
	rockets := make([]*vehicle.Rocket, len(points))

	err := pool.Run(ctx, len(points), func(_ context.Context, i int) error {
		t := spec.Template
		t.Name = fmt.Sprintf("%s-%03d", spec.Template.Name, i)
		r, err := t.Build(points[i])
		if err != nil {
			return err
		}
		rockets[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rockets, nil
}
