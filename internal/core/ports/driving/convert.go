package driving

import (
	"context"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// Converter converts a single XML file in memory.
type Converter interface {
	// Convert runs the full pipeline on one file. Failures other than
	// eager configuration/format errors are captured in the result
	// (Success=false) rather than returned.
	Convert(ctx context.Context, xmlPath string) *domain.ConversionResult
}

// BatchProcessor converts every matching file in a directory under a
// bounded worker pool.
type BatchProcessor interface {
	// Run executes one batch pass: discover, convert (or dry-run),
	// summarise and persist. A single file's failure never aborts the
	// run.
	Run(ctx context.Context) (*domain.ProcessingSummary, error)
}

// Watcher continuously converts files as they appear in a directory.
type Watcher interface {
	// Watch blocks until ctx is cancelled, converting each new file.
	Watch(ctx context.Context) error
}
