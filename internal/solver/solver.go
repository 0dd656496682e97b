// Package solver provides bounded bracketed root finding for scalar design
// constraints. The iteration is bisection refined by secant steps: secant
// proposals are accepted while they stay inside the current bracket,
// otherwise the step falls back to the midpoint, so convergence is never
// worse than bisection.
package solver

import (
	"context"
	"fmt"
	"math"
)

// Func is a scalar residual function. An error return aborts the solve and
// propagates unchanged to the caller.
type Func func(x float64) (float64, error)

// Options bound a solve.
type Options struct {
	// Tol is the convergence tolerance on the absolute residual.
	Tol float64
	// MaxIter is the iteration budget.
	MaxIter int
}

// DefaultOptions are suitable for design closure on quantities of order one
// to one million (burn times, pressures, masses).
func DefaultOptions() Options {
	return Options{Tol: 1e-6, MaxIter: 100}
}

// BracketError reports that the supplied bounds do not bracket a root.
type BracketError struct {
	Lo, Hi   float64
	FLo, FHi float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("solver: no sign change in bracket [%g, %g]: f(lo)=%g, f(hi)=%g",
		e.Lo, e.Hi, e.FLo, e.FHi)
}

// ConvergenceError reports an exhausted iteration budget. X and Residual
// describe the best iterate reached.
type ConvergenceError struct {
	Iterations int
	X          float64
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("solver: no convergence after %d iterations: x=%g, residual=%g",
		e.Iterations, e.X, e.Residual)
}

// Solve finds x in [lo, hi] with |f(x)| < opts.Tol. The bracket must contain
// a sign change; otherwise Solve fails with *BracketError without iterating.
func Solve(f Func, lo, hi float64, opts Options) (float64, error) {
	if opts.Tol <= 0 {
		opts.Tol = DefaultOptions().Tol
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultOptions().MaxIter
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	fLo, err := f(lo)
	if err != nil {
		return 0, err
	}
	if math.Abs(fLo) < opts.Tol {
		return lo, nil
	}
	fHi, err := f(hi)
	if err != nil {
		return 0, err
	}
	if math.Abs(fHi) < opts.Tol {
		return hi, nil
	}
	if fLo*fHi > 0 {
		return 0, &BracketError{Lo: lo, Hi: hi, FLo: fLo, FHi: fHi}
	}

	ctx := context.Background()
	x, fx := lo, fLo
	for i := 0; i < opts.MaxIter; i++ {
		iterationsTotal.Add(ctx, 1)
		// secant proposal from the bracket endpoints
		x = hi - fHi*(hi-lo)/(fHi-fLo)
		if !(x > lo && x < hi) {
			x = lo + (hi-lo)/2
		}

		fx, err = f(x)
		if err != nil {
			return 0, err
		}
		if math.Abs(fx) < opts.Tol {
			solvesTotal.Add(ctx, 1)
			return x, nil
		}

		if fLo*fx < 0 {
			hi, fHi = x, fx
		} else {
			lo, fLo = x, fx
		}
	}

	return 0, &ConvergenceError{Iterations: opts.MaxIter, X: x, Residual: fx}
}
