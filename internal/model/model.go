// Package model provides the pure-function property evaluators used across
// the design and trajectory code: constants, linear laws, 1D/2D lookup
// tables and combustion-derived specific impulse. A model maps one or two
// independent variables to a single physical quantity and owns no mutable
// state; backing tables are loaded once and never change afterwards.
package model

import "math"

// Input carries the independent variables for a model evaluation. X is the
// first (or only) variable, Y the second for two-variable models. Ambient is
// the ambient pressure in Pa; only the specific-impulse models read it.
type Input struct {
	X       float64
	Y       float64
	Ambient float64
}

// Range is a closed interval of valid input values. An unbounded side is
// represented by ±Inf.
type Range struct {
	Min float64
	Max float64
}

// Unbounded returns a range covering all finite values.
func Unbounded() Range {
	return Range{Min: math.Inf(-1), Max: math.Inf(1)}
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Domain describes the valid input region of a model.
type Domain struct {
	X Range
	Y Range
}

// Model evaluates one physical quantity from up to two independent
// variables. Evaluation is side-effect-free.
type Model interface {
	Evaluate(in Input) (float64, error)
	Domain() Domain
}

// Constant is a model whose output is independent of its input.
type Constant struct {
	Value float64
}

// NewConstant returns a model that always evaluates to value.
func NewConstant(value float64) *Constant {
	return &Constant{Value: value}
}

// Evaluate returns the stored value for any input.
func (c *Constant) Evaluate(Input) (float64, error) {
	return c.Value, nil
}

// Domain returns an unbounded domain.
func (c *Constant) Domain() Domain {
	return Domain{X: Unbounded(), Y: Unbounded()}
}

// Linear is the model y = Slope·x + Intercept.
type Linear struct {
	Slope     float64
	Intercept float64
}

// NewLinear returns a linear model with the given slope and intercept.
func NewLinear(slope, intercept float64) *Linear {
	return &Linear{Slope: slope, Intercept: intercept}
}

// Evaluate applies the linear law to in.X.
func (l *Linear) Evaluate(in Input) (float64, error) {
	return l.Slope*in.X + l.Intercept, nil
}

// Domain returns an unbounded domain.
func (l *Linear) Domain() Domain {
	return Domain{X: Unbounded(), Y: Unbounded()}
}
