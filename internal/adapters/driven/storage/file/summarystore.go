// Package file persists batch summaries as timestamped JSON files.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driven"
)

// summaryTimeLayout names summary files down to the second.
const summaryTimeLayout = "2006_01_02_15_04_05"

// Ensure SummaryStore implements the interface.
var _ driven.SummaryStore = (*SummaryStore)(nil)

// SummaryStore writes one JSON file per batch run into a summary
// directory, named ublkit_summary_<timestamp>.json.
type SummaryStore struct {
	dir string
}

// NewSummaryStore creates a store writing into dir. The directory is
// created on first save.
func NewSummaryStore(dir string) *SummaryStore {
	return &SummaryStore{dir: dir}
}

// summaryFile is the on-disk envelope.
type summaryFile struct {
	Summary summaryHeader   `json:"summary"`
	Results []summaryResult `json:"results"`
}

type summaryHeader struct {
	RunID                string  `json:"run_id"`
	TotalFiles           int     `json:"total_files"`
	Successful           int     `json:"successful"`
	Failed               int     `json:"failed"`
	OutputFormat         string  `json:"output_format"`
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
}

type summaryResult struct {
	File                  string  `json:"file"`
	Success               bool    `json:"success"`
	OutputPath            *string `json:"output_path"`
	ErrorMessage          string  `json:"error_message"`
	ProcessingTimeSeconds float64 `json:"processing_time_seconds"`
	FileSizeBytes         int64   `json:"file_size_bytes"`
	DocumentType          string  `json:"document_type"`
}

// Save writes the summary and returns the path written. The file name
// is derived from the run's end time.
func (s *SummaryStore) Save(ctx context.Context, summary *domain.ProcessingSummary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create summary directory: %w", err)
	}

	// Error messages may quote source text; keep &, < and > literal.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toWire(summary)); err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	data := buf.Bytes()

	name := "ublkit_summary_" + summary.EndTime.Format(summaryTimeLayout) + ".json"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write summary file: %w", err)
	}
	return path, nil
}

func toWire(summary *domain.ProcessingSummary) summaryFile {
	out := summaryFile{
		Summary: summaryHeader{
			RunID:                summary.RunID,
			TotalFiles:           summary.TotalFiles,
			Successful:           summary.Successful,
			Failed:               summary.Failed,
			OutputFormat:         summary.OutputFormat.String(),
			StartTime:            summary.StartTime.Format(time.RFC3339),
			EndTime:              summary.EndTime.Format(time.RFC3339),
			TotalDurationSeconds: summary.Duration().Seconds(),
		},
		Results: make([]summaryResult, 0, len(summary.Results)),
	}
	for _, r := range summary.Results {
		wire := summaryResult{
			File:                  r.File,
			Success:               r.Success,
			ErrorMessage:          r.ErrorMessage,
			ProcessingTimeSeconds: r.ProcessingTime.Seconds(),
			FileSizeBytes:         r.FileSizeBytes,
			DocumentType:          r.DocumentType,
		}
		// Chunked CSV output keeps its first path as the representative
		// output_path; the remaining chunks are derivable from it.
		if len(r.OutputPaths) > 0 {
			wire.OutputPath = &r.OutputPaths[0]
		}
		out.Results = append(out.Results, wire)
	}
	return out
}
