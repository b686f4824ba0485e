package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// progressInterval is how many completions pass between progress lines.
const progressInterval = 10

// Ensure BatchService implements the interface.
var _ driving.BatchProcessor = (*BatchService)(nil)

// BatchService converts every XML file in a directory under a bounded
// worker pool and persists a summary of the run.
type BatchService struct {
	converter *ConvertService
	inputDir  string
	outputDir string
	dryRun    bool
	workers   int

	summaryStore driven.SummaryStore
	runStore     driven.RunStore // optional
}

// NewBatchService creates a batch processor. runStore may be nil, in
// which case run history is not recorded.
func NewBatchService(
	converter *ConvertService,
	inputDir, outputDir string,
	dryRun bool,
	workers int,
	summaryStore driven.SummaryStore,
	runStore driven.RunStore,
) *BatchService {
	return &BatchService{
		converter:    converter,
		inputDir:     inputDir,
		outputDir:    outputDir,
		dryRun:       dryRun,
		workers:      workers,
		summaryStore: summaryStore,
		runStore:     runStore,
	}
}

// Run executes one batch pass. An empty input directory and a dry run
// both complete without writing any output or summary. A single
// file's failure is recorded in the summary and never aborts the run.
func (s *BatchService) Run(ctx context.Context) (*domain.ProcessingSummary, error) {
	summary := &domain.ProcessingSummary{
		RunID:        uuid.NewString(),
		OutputFormat: s.converter.Format(),
		StartTime:    time.Now(),
	}

	files, err := discoverXMLFiles(s.inputDir)
	if err != nil {
		return nil, fmt.Errorf("discover input files: %w", err)
	}

	if len(files) == 0 {
		logger.Warn("No XML files found in: %s", s.inputDir)
		summary.EndTime = summary.StartTime
		return summary, nil
	}

	if s.dryRun {
		for _, f := range files {
			logger.Info("Would process: %s", f)
		}
		summary.TotalFiles = len(files)
		summary.EndTime = time.Now()
		return summary, nil
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	logger.Info("Processing %d files with %d workers", len(files), s.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	// Buffered to len(files): g.Go blocks once the pool limit is
	// reached, and the drain loop below only starts after every file
	// has been submitted, so workers must be able to complete their
	// send without a waiting receiver.
	results := make(chan domain.ProcessingResult, len(files))

	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results <- s.processFile(gctx, f)
			return nil
		})
	}
	go func() {
		g.Wait() //nolint:errcheck // collected below, after the results drain
		close(results)
	}()

	// Results arrive in completion order. Aggregation happens in this
	// single loop, so the summary needs no locking.
	completed := 0
	for r := range results {
		summary.AddResult(r)
		completed++
		if completed%progressInterval == 0 {
			logger.Progress(completed, len(files))
		}
	}
	logger.Progress(completed, len(files))

	if err := g.Wait(); err != nil {
		summary.EndTime = time.Now()
		return summary, err
	}

	summary.EndTime = time.Now()

	path, err := s.summaryStore.Save(ctx, summary)
	if err != nil {
		return summary, fmt.Errorf("save summary: %w", err)
	}
	logger.Info("Summary written to: %s", path)

	if s.runStore != nil {
		if err := s.runStore.RecordRun(ctx, summary); err != nil {
			logger.Warn("Failed to record run history: %v", err)
		}
	}

	return summary, nil
}

// processFile converts one file and writes its output, folding any
// failure into the returned result.
func (s *BatchService) processFile(ctx context.Context, xmlPath string) domain.ProcessingResult {
	conv := s.converter.Convert(ctx, xmlPath)
	result := domain.ProcessingResult{
		File:           xmlPath,
		Success:        conv.Success,
		ErrorMessage:   conv.ErrorMessage,
		ProcessingTime: conv.ProcessingTime,
		FileSizeBytes:  conv.FileSizeBytes,
		DocumentType:   conv.DocumentType,
	}
	if !conv.Success {
		logger.Error("Failed to convert %s: %s", xmlPath, conv.ErrorMessage)
		return result
	}

	outputPath := filepath.Join(s.outputDir, s.converter.OutputFileName(xmlPath))
	paths, err := s.converter.Write(conv, outputPath)
	if err != nil {
		result.Success = false
		result.ErrorMessage = err.Error()
		logger.Error("Failed to write output for %s: %v", xmlPath, err)
		return result
	}

	result.OutputPaths = paths
	logger.Debug("Converted %s (%s)", xmlPath, conv.DocumentType)
	return result
}

// discoverXMLFiles lists the XML files directly inside dir, sorted by
// name. Subdirectories are not descended into.
func discoverXMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
