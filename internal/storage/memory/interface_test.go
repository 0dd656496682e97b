// internal/storage/memory/interface_test.go
package memory_test

import (
	"github.com/L1xtopher/hytempo/internal/storage"
	"github.com/L1xtopher/hytempo/internal/storage/memory"
)

// Verify Backend implements storage.Backend interface
var _ storage.Backend = (*memory.Backend)(nil)

// Verify Backend implements storage.Exportable interface
var _ storage.Exportable = (*memory.Backend)(nil)
