// internal/storage/storage_test.go
package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L1xtopher/hytempo/internal/config"
	"github.com/L1xtopher/hytempo/internal/logging"
	"github.com/L1xtopher/hytempo/internal/storage"
	gormstorage "github.com/L1xtopher/hytempo/internal/storage/gorm"
	influxstorage "github.com/L1xtopher/hytempo/internal/storage/influx"
	"github.com/L1xtopher/hytempo/internal/storage/memory"
)

// Compile-time interface checks for all backends
var (
	_ storage.Backend    = (*memory.Backend)(nil)
	_ storage.Backend    = (*gormstorage.Backend)(nil)
	_ storage.Backend    = (*influxstorage.Backend)(nil)
	_ storage.Exportable = (*memory.Backend)(nil)
)

func TestNewBackendMemory(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{
		Type:   "memory",
		Memory: config.MemoryConfig{OutputDir: t.TempDir()},
	}, logging.NewSlogManager())
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)
}

func TestNewBackendGorm(t *testing.T) {
	log := logging.NewSlogManager()
	for _, typ := range []string{"gorm", "postgres", "sqlite"} {
		b, err := storage.NewBackend(config.StorageConfig{Type: typ}, log)
		require.NoError(t, err)
		assert.IsType(t, &gormstorage.Backend{}, b)
	}
}

func TestNewBackendInflux(t *testing.T) {
	b, err := storage.NewBackend(config.StorageConfig{Type: "influx"}, logging.NewSlogManager())
	require.NoError(t, err)
	assert.IsType(t, &influxstorage.Backend{}, b)
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := storage.NewBackend(config.StorageConfig{Type: "carrier-pigeon"}, logging.NewSlogManager())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
