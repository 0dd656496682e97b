package cea

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/L1xtopher/hytempo/internal/model"
)

// LoadBiprop reads tabulated bipropellant chamber data from r. The expected
// layout is semicolon-separated rows
//
//	chamber_pressure;mixture_ratio;cstar;gamma
//
// covering a full rectangular grid of the two operating variables, in any
// row order. A header row is skipped if present. The policy applies to both
// resulting grids.
func LoadBiprop(r io.Reader, propellants string, policy model.Policy) (*BipropTable, error) {
	rows, err := readRows(r, 4)
	if err != nil {
		return nil, err
	}

	pcs := uniqueSorted(column(rows, 0))
	ofs := uniqueSorted(column(rows, 1))
	cstar := make([][]float64, len(pcs))
	gamma := make([][]float64, len(pcs))
	seen := make([][]bool, len(pcs))
	for i := range pcs {
		cstar[i] = make([]float64, len(ofs))
		gamma[i] = make([]float64, len(ofs))
		seen[i] = make([]bool, len(ofs))
	}

	for _, row := range rows {
		i := sort.SearchFloat64s(pcs, row[0])
		j := sort.SearchFloat64s(ofs, row[1])
		if seen[i][j] {
			return nil, fmt.Errorf("cea: duplicate grid point (%g, %g)", row[0], row[1])
		}
		cstar[i][j] = row[2]
		gamma[i][j] = row[3]
		seen[i][j] = true
	}
	for i := range seen {
		for j := range seen[i] {
			if !seen[i][j] {
				return nil, fmt.Errorf("cea: grid point (%g, %g) missing, data is not rectangular", pcs[i], ofs[j])
			}
		}
	}

	cstarTab, err := model.NewTable2D(pcs, ofs, cstar, policy)
	if err != nil {
		return nil, err
	}
	gammaTab, err := model.NewTable2D(pcs, ofs, gamma, policy)
	if err != nil {
		return nil, err
	}
	return NewBipropTable(propellants, cstarTab, gammaTab), nil
}

// LoadSolid reads tabulated solid-propellant chamber data from r, rows of
//
//	chamber_pressure;cstar;gamma
//
// sorted or unsorted. A header row is skipped if present.
func LoadSolid(r io.Reader, propellant string, policy model.Policy) (*SolidTable, error) {
	rows, err := readRows(r, 3)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	pcs := make([]float64, len(rows))
	cstar := make([]float64, len(rows))
	gamma := make([]float64, len(rows))
	for i, row := range rows {
		pcs[i] = row[0]
		cstar[i] = row[1]
		gamma[i] = row[2]
	}

	cstarTab, err := model.NewTable1D(pcs, cstar, policy)
	if err != nil {
		return nil, err
	}
	gammaTab, err := model.NewTable1D(pcs, gamma, policy)
	if err != nil {
		return nil, err
	}
	return NewSolidTable(propellant, cstarTab, gammaTab), nil
}

// LoadBipropFile is LoadBiprop over a file path.
func LoadBipropFile(path, propellants string, policy model.Policy) (*BipropTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadBiprop(f, propellants, policy)
}

// LoadSolidFile is LoadSolid over a file path.
func LoadSolidFile(path, propellant string, policy model.Policy) (*SolidTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSolid(f, propellant, policy)
}

func readRows(r io.Reader, columns int) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cea: reading table: %w", err)
	}

	var rows [][]float64
	for n, rec := range records {
		if len(rec) != columns {
			return nil, fmt.Errorf("cea: row %d has %d columns, want %d", n+1, len(rec), columns)
		}
		row := make([]float64, columns)
		ok := true
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			row[i] = v
		}
		if !ok {
			if n == 0 {
				// header row
				continue
			}
			return nil, fmt.Errorf("cea: row %d is not numeric: %v", n+1, rec)
		}
		rows = append(rows, row)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("cea: table has %d data rows, need at least 2", len(rows))
	}
	return rows, nil
}

func column(rows [][]float64, i int) []float64 {
	out := make([]float64, len(rows))
	for n, row := range rows {
		out[n] = row[i]
	}
	return out
}

func uniqueSorted(vs []float64) []float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
