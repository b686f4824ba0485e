package driven

import (
	"context"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// SummaryStore persists a finished batch summary.
// Backed by a timestamped JSON file in the configured summary directory.
type SummaryStore interface {
	// Save writes the summary and returns the path it was written to.
	Save(ctx context.Context, summary *domain.ProcessingSummary) (string, error)
}

// RunStore records batch run history for later inspection.
// Backed by SQLite.
type RunStore interface {
	// RecordRun stores a run and its per-file results.
	RecordRun(ctx context.Context, summary *domain.ProcessingSummary) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error)

	// Close releases the underlying database handle.
	Close() error
}
