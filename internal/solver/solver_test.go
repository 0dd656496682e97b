package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_Polynomial(t *testing.T) {
	f := func(x float64) (float64, error) { return x*x - 2, nil }
	x, err := Solve(f, 0, 2, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, x, 1e-5)
}

func TestSolve_Transcendental(t *testing.T) {
	f := func(x float64) (float64, error) { return math.Cos(x) - x, nil }
	x, err := Solve(f, 0, 1, Options{Tol: 1e-10, MaxIter: 200})
	require.NoError(t, err)
	assert.InDelta(t, 0.7390851332, x, 1e-8)
}

func TestSolve_ResidualWithinTolerance(t *testing.T) {
	opts := Options{Tol: 1e-8, MaxIter: 200}
	f := func(x float64) (float64, error) { return math.Exp(x) - 10, nil }
	x, err := Solve(f, 0, 5, opts)
	require.NoError(t, err)
	fx, _ := f(x)
	assert.Less(t, math.Abs(fx), opts.Tol)
}

func TestSolve_NoSignChange(t *testing.T) {
	f := func(x float64) (float64, error) { return x*x + 1, nil }
	_, err := Solve(f, -1, 1, DefaultOptions())
	var berr *BracketError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, -1.0, berr.Lo)
	assert.Equal(t, 1.0, berr.Hi)
}

func TestSolve_BudgetExhausted(t *testing.T) {
	f := func(x float64) (float64, error) { return x, nil }
	_, err := Solve(f, -1e9, 1e9, Options{Tol: 1e-300, MaxIter: 3})
	var cerr *ConvergenceError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 3, cerr.Iterations)
}

func TestSolve_EvaluationErrorPropagates(t *testing.T) {
	cause := errors.New("design outside modelled validity")
	f := func(x float64) (float64, error) {
		if x > 0.5 {
			return 0, cause
		}
		return x - 0.75, nil
	}
	_, err := Solve(f, 0, 1, DefaultOptions())
	assert.ErrorIs(t, err, cause)
}

func TestSolve_SwappedBounds(t *testing.T) {
	f := func(x float64) (float64, error) { return x - 1, nil }
	x, err := Solve(f, 2, 0, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x, 1e-5)
}

func TestSolve_EndpointRoot(t *testing.T) {
	f := func(x float64) (float64, error) { return x, nil }
	x, err := Solve(f, 0, 1, DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, x)
}
