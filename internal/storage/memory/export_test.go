// internal/storage/memory/export_test.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/L1xtopher/hytempo/internal/config"
	"github.com/L1xtopher/hytempo/internal/trajectory"
)

func TestEndRunExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})

	run := testRun("Maiden Flight")
	if err := b.StartRun(run); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	records := []trajectory.Record{
		{Time: 0, Mass: 50, Phase: trajectory.PhasePad},
		{Time: 0.05, Altitude: 0.1, Velocity: 4, Mass: 49.9, Phase: trajectory.PhasePowered},
	}
	if err := b.RecordStates(run.ID, records); err != nil {
		t.Fatalf("RecordStates failed: %v", err)
	}
	if err := b.RecordSummary(run.ID, trajectory.Summary{Apogee: 3200}); err != nil {
		t.Fatalf("RecordSummary failed: %v", err)
	}

	if err := b.EndRun(run.ID); err != nil {
		t.Fatalf("EndRun failed: %v", err)
	}

	path := b.GetExportedFilePath()
	if path == "" {
		t.Fatal("no export path recorded")
	}
	if !strings.HasPrefix(filepath.Base(path), "Maiden_Flight_") {
		t.Errorf("unexpected export filename: %s", filepath.Base(path))
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("expected .json suffix, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}

	var export RunExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("failed to parse export: %v", err)
	}
	if export.Name != "Maiden Flight" {
		t.Errorf("expected name 'Maiden Flight', got %s", export.Name)
	}
	if len(export.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(export.Records))
	}
	if export.Summary == nil || export.Summary.Apogee != 3200 {
		t.Error("summary missing from export")
	}
	if export.WetMass != 50 {
		t.Errorf("expected wet mass 50, got %g", export.WetMass)
	}
}

func TestEndRunExportsGzip(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	run := testRun("alpha")
	if err := b.StartRun(run); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if err := b.EndRun(run.ID); err != nil {
		t.Fatalf("EndRun failed: %v", err)
	}

	path := b.GetExportedFilePath()
	if !strings.HasSuffix(path, ".json.gz") {
		t.Fatalf("expected .json.gz suffix, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("failed to open gzip reader: %v", err)
	}
	defer gz.Close()

	var export RunExport
	if err := json.NewDecoder(gz).Decode(&export); err != nil {
		t.Fatalf("failed to decode export: %v", err)
	}
	if export.Name != "alpha" {
		t.Errorf("expected name alpha, got %s", export.Name)
	}
}

func TestExportCreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "runs")
	b := New(config.MemoryConfig{OutputDir: dir})

	run := testRun("alpha")
	if err := b.StartRun(run); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if err := b.EndRun(run.ID); err != nil {
		t.Fatalf("EndRun failed: %v", err)
	}

	if _, err := os.Stat(b.GetExportedFilePath()); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}
