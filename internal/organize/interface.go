package organize

import (
	"context"

	"pdfinbox/internal/config"
	"pdfinbox/pkg/types"
)

// Organizer defines the interface for import operations.
// This allows for dependency injection in tests and other parts of the application
type Organizer interface {
	// SetConfig applies the import settings
	SetConfig(cfg *config.Config)

	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// SetRecorder registers the sink for completed imports
	SetRecorder(r Recorder)

	// Import moves an unmanaged record into the managed directory
	Import(ctx context.Context, rec types.FileRecord, managedDir string) (types.ImportResult, error)

	// MoveFile moves a file from source to destination with safety checks
	MoveFile(src, dest string) error
}

// Ensure Engine implements the Organizer interface
var _ Organizer = (*Engine)(nil)
