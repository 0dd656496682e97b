// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/L1xtopher/hytempo/internal/trajectory"
	"github.com/L1xtopher/hytempo/internal/vehicle"
)

// RunExport is the root JSON structure
type RunExport struct {
	Name           string              `json:"name"`
	StartedAt      time.Time           `json:"startedAt"`
	Params         vehicle.Parameters  `json:"params"`
	DryMass        float64             `json:"dryMass"`
	WetMass        float64             `json:"wetMass"`
	PropellantMass float64             `json:"propellantMass"`
	Summary        *trajectory.Summary `json:"summary,omitempty"`
	Records        []trajectory.Record `json:"records"`
}

// exportJSON writes a run to a JSON file, gzipped when configured.
// Callers must hold the write lock.
func (b *Backend) exportJSON(rec *RunRecord) error {
	export := RunExport{
		Name:           rec.Run.Name,
		StartedAt:      rec.Run.StartedAt,
		Params:         rec.Run.Params,
		DryMass:        rec.Run.DryMass,
		WetMass:        rec.Run.WetMass,
		PropellantMass: rec.Run.PropellantMass,
		Summary:        rec.Summary,
		Records:        rec.States,
	}

	// Build filename
	name := strings.ReplaceAll(rec.Run.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	timestamp := rec.Run.StartedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, export RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, export RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	enc := json.NewEncoder(gz)
	if err := enc.Encode(export); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gz.Close()
}
