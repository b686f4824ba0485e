package domain

import "time"

// KeyValuePair is a single flattened path/value row tagged with the
// file it came from. Pairs are created and consumed within one
// conversion; they are never shared across documents.
type KeyValuePair struct {
	// Key is the flattened path, unique within one document.
	Key string

	// Value is the scalar text at that path ("" for empty containers).
	Value string

	// SourceFile is the originating file name.
	SourceFile string
}

// ConversionResult is the in-memory result of converting a single
// file. Exactly one of Document and Pairs is populated on success,
// depending on the output format.
type ConversionResult struct {
	Success        bool
	SourceFile     string
	OutputFormat   Format
	ProcessingTime time.Duration
	ErrorMessage   string
	FileSizeBytes  int64
	DocumentType   string

	// Document holds the mapped (and optionally flattened) value tree
	// for the JSON route.
	Document Value

	// Pairs holds the flattened rows for the CSV route.
	Pairs []KeyValuePair
}

// ProcessingResult is the batch-mode analogue of ConversionResult:
// instead of in-memory content it records the output paths written.
type ProcessingResult struct {
	File           string
	Success        bool
	OutputPaths    []string
	ErrorMessage   string
	ProcessingTime time.Duration
	FileSizeBytes  int64
	DocumentType   string
}

// ProcessingSummary aggregates the results of one batch run. It is
// created once per run and mutated only by the orchestrator's
// aggregation loop as worker results complete.
//
// Invariant: Successful + Failed == TotalFiles after every AddResult.
type ProcessingSummary struct {
	// RunID uniquely identifies this batch run.
	RunID string

	TotalFiles   int
	Successful   int
	Failed       int
	Results      []ProcessingResult
	StartTime    time.Time
	EndTime      time.Time
	OutputFormat Format
}

// AddResult appends a result and updates the counters.
func (s *ProcessingSummary) AddResult(r ProcessingResult) {
	s.Results = append(s.Results, r)
	s.TotalFiles++
	if r.Success {
		s.Successful++
	} else {
		s.Failed++
	}
}

// Duration returns the elapsed wall time of the run.
func (s *ProcessingSummary) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// RunRecord is a persisted row of batch run history.
type RunRecord struct {
	ID           string
	OutputFormat string
	TotalFiles   int
	Successful   int
	Failed       int
	StartTime    time.Time
	EndTime      time.Time
}
