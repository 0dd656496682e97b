// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/L1xtopher/hytempo/internal/config"
	"github.com/L1xtopher/hytempo/internal/logging"
	gormstorage "github.com/L1xtopher/hytempo/internal/storage/gorm"
	influxstorage "github.com/L1xtopher/hytempo/internal/storage/influx"
	"github.com/L1xtopher/hytempo/internal/storage/memory"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "gorm", "postgres", "sqlite":
		return gormstorage.New(gormstorage.Dependencies{
			LogManager: log,
		}), nil
	case "influx":
		return influxstorage.New(log), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
