// Package aero loads aerodynamic drag maps. A drag map is a rectangular
// grid of drag coefficients over Mach number and length/diameter ratio,
// shipped as a semicolon-separated matrix: the first row carries the L/D
// axis, the first column the Mach axis, and the top-left cell is ignored.
package aero

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/L1xtopher/hytempo/internal/model"
)

// LoadDragMap parses a drag map from r into an immutable 2D model with
// Mach on the x axis and L/D on the y axis.
func LoadDragMap(r io.Reader, policy model.Policy) (*model.Table2D, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("aero: reading drag map: %w", err)
	}
	if len(records) < 3 {
		return nil, fmt.Errorf("aero: drag map has %d rows, need at least 3", len(records))
	}

	header := records[0]
	if len(header) < 3 {
		return nil, fmt.Errorf("aero: drag map has %d columns, need at least 3", len(header))
	}

	lds := make([]float64, len(header)-1)
	for j, field := range header[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("aero: L/D axis value %q: %w", field, err)
		}
		lds[j] = v
	}

	machs := make([]float64, len(records)-1)
	cds := make([][]float64, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("aero: row %d has %d columns, want %d", i+2, len(rec), len(header))
		}
		v, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("aero: Mach axis value %q: %w", rec[0], err)
		}
		machs[i] = v

		row := make([]float64, len(rec)-1)
		for j, field := range rec[1:] {
			cd, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("aero: drag coefficient %q at row %d: %w", field, i+2, err)
			}
			row[j] = cd
		}
		cds[i] = row
	}

	tab, err := model.NewTable2D(machs, lds, cds, policy)
	if err != nil {
		return nil, fmt.Errorf("aero: drag map: %w", err)
	}
	return tab, nil
}

// LoadDragMapFile is LoadDragMap over a file path.
func LoadDragMapFile(path string, policy model.Policy) (*model.Table2D, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDragMap(f, policy)
}
