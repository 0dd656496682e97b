package model

import (
	"fmt"
	"sort"
)

// Policy selects the behavior of table-backed models for inputs outside the
// stored breakpoint range.
type Policy int

const (
	// Fail rejects out-of-domain inputs with a *DomainError.
	Fail Policy = iota
	// Clamp evaluates at the nearest boundary and flags the access.
	Clamp
)

// Table1D interpolates linearly between monotonic breakpoints. Values at
// stored breakpoints are returned exactly.
type Table1D struct {
	xs     []float64
	ys     []float64
	policy Policy
}

// NewTable1D builds a 1D lookup table from strictly increasing breakpoints
// xs and their values ys. The slices are copied; the table is immutable.
func NewTable1D(xs, ys []float64, policy Policy) (*Table1D, error) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil, fmt.Errorf("model: table1d needs matching breakpoint/value slices of length >= 2, got %d/%d", len(xs), len(ys))
	}
	if err := checkIncreasing("x", xs); err != nil {
		return nil, err
	}
	t := &Table1D{
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
		policy: policy,
	}
	return t, nil
}

// Evaluate interpolates the table at in.X, applying the table's
// out-of-domain policy.
func (t *Table1D) Evaluate(in Input) (float64, error) {
	v, _, err := t.EvaluateClamped(in)
	return v, err
}

// EvaluateClamped is Evaluate with an explicit diagnostic: clamped is true
// when the Clamp policy substituted a boundary value.
func (t *Table1D) EvaluateClamped(in Input) (v float64, clamped bool, err error) {
	x := in.X
	r := Range{Min: t.xs[0], Max: t.xs[len(t.xs)-1]}
	if !r.Contains(x) {
		if t.policy == Fail {
			return 0, false, &DomainError{Axis: "x", Value: x, Valid: r}
		}
		x = r.Clamp(x)
		clamped = true
	}
	return interp1(t.xs, t.ys, x), clamped, nil
}

// Domain returns the breakpoint range.
func (t *Table1D) Domain() Domain {
	return Domain{
		X: Range{Min: t.xs[0], Max: t.xs[len(t.xs)-1]},
		Y: Unbounded(),
	}
}

// Table2D interpolates bilinearly over a rectangular grid. Grid nodes are
// returned exactly and interpolation is continuous across cell boundaries.
type Table2D struct {
	xs     []float64
	ys     []float64
	zs     [][]float64 // zs[i][j] is the value at (xs[i], ys[j])
	policy Policy
}

// NewTable2D builds a 2D lookup table over the strictly increasing axes xs
// and ys with values zs (len(xs) rows of len(ys) columns). All slices are
// copied.
func NewTable2D(xs, ys []float64, zs [][]float64, policy Policy) (*Table2D, error) {
	if len(xs) < 2 || len(ys) < 2 {
		return nil, fmt.Errorf("model: table2d needs at least 2 breakpoints per axis, got %dx%d", len(xs), len(ys))
	}
	if len(zs) != len(xs) {
		return nil, fmt.Errorf("model: table2d has %d rows, want %d", len(zs), len(xs))
	}
	if err := checkIncreasing("x", xs); err != nil {
		return nil, err
	}
	if err := checkIncreasing("y", ys); err != nil {
		return nil, err
	}
	t := &Table2D{
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
		zs:     make([][]float64, len(zs)),
		policy: policy,
	}
	for i, row := range zs {
		if len(row) != len(ys) {
			return nil, fmt.Errorf("model: table2d row %d has %d columns, want %d", i, len(row), len(ys))
		}
		t.zs[i] = append([]float64(nil), row...)
	}
	return t, nil
}

// Evaluate interpolates the grid at (in.X, in.Y), applying the table's
// out-of-domain policy per axis.
func (t *Table2D) Evaluate(in Input) (float64, error) {
	v, _, err := t.EvaluateClamped(in)
	return v, err
}

// EvaluateClamped is Evaluate with an explicit diagnostic: clamped is true
// when the Clamp policy substituted a boundary value on either axis.
func (t *Table2D) EvaluateClamped(in Input) (v float64, clamped bool, err error) {
	x, y := in.X, in.Y
	rx := Range{Min: t.xs[0], Max: t.xs[len(t.xs)-1]}
	ry := Range{Min: t.ys[0], Max: t.ys[len(t.ys)-1]}
	if !rx.Contains(x) {
		if t.policy == Fail {
			return 0, false, &DomainError{Axis: "x", Value: x, Valid: rx}
		}
		x = rx.Clamp(x)
		clamped = true
	}
	if !ry.Contains(y) {
		if t.policy == Fail {
			return 0, false, &DomainError{Axis: "y", Value: y, Valid: ry}
		}
		y = ry.Clamp(y)
		clamped = true
	}

	i := cellIndex(t.xs, x)
	j := cellIndex(t.ys, y)
	x0, x1 := t.xs[i], t.xs[i+1]
	y0, y1 := t.ys[j], t.ys[j+1]
	tx := (x - x0) / (x1 - x0)
	ty := (y - y0) / (y1 - y0)

	z00 := t.zs[i][j]
	z10 := t.zs[i+1][j]
	z01 := t.zs[i][j+1]
	z11 := t.zs[i+1][j+1]

	v = z00*(1-tx)*(1-ty) + z10*tx*(1-ty) + z01*(1-tx)*ty + z11*tx*ty
	return v, clamped, nil
}

// Domain returns the grid extent on both axes.
func (t *Table2D) Domain() Domain {
	return Domain{
		X: Range{Min: t.xs[0], Max: t.xs[len(t.xs)-1]},
		Y: Range{Min: t.ys[0], Max: t.ys[len(t.ys)-1]},
	}
}

func checkIncreasing(axis string, vs []float64) error {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return fmt.Errorf("model: %s breakpoints must be strictly increasing, got %g after %g", axis, vs[i], vs[i-1])
		}
	}
	return nil
}

// cellIndex returns i such that vs[i] <= v <= vs[i+1], with v already inside
// the breakpoint range.
func cellIndex(vs []float64, v float64) int {
	i := sort.SearchFloat64s(vs, v)
	if i > 0 {
		i--
	}
	if i > len(vs)-2 {
		i = len(vs) - 2
	}
	return i
}

func interp1(xs, ys []float64, x float64) float64 {
	i := cellIndex(xs, x)
	x0, x1 := xs[i], xs[i+1]
	t := (x - x0) / (x1 - x0)
	return ys[i]*(1-t) + ys[i+1]*t
}
