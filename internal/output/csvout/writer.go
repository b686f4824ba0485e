// Package csvout renders flattened key/value pairs as one or more
// delimited files, splitting large outputs into numbered chunks.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// header is the fixed column set of every chunk.
var header = []string{"Key", "Value", "Filename"}

// Writer writes key/value pairs to CSV files, applying the
// preservation transform and chunking at maxRecords rows per file.
type Writer struct {
	maxRecords int
	preserver  *Preserver
}

// NewWriter creates a CSV writer. maxRecords must be >= 1 (enforced
// by Config.Validate).
func NewWriter(maxRecords int, method domain.PreservationMethod) *Writer {
	return &Writer{
		maxRecords: maxRecords,
		preserver:  NewPreserver(method),
	}
}

// Write renders pairs to outputPath, splitting into contiguous,
// order-preserving chunks of at most maxRecords rows. It returns the
// list of paths written. An empty pair list is logged and produces no
// files and no error.
func (w *Writer) Write(outputPath string, pairs []domain.KeyValuePair) ([]string, error) {
	if len(pairs) == 0 {
		logger.Warn("No data to write to CSV: %s", outputPath)
		return nil, nil
	}

	total := len(pairs)
	numChunks := (total + w.maxRecords - 1) / w.maxRecords

	if numChunks == 1 {
		if err := w.writeChunk(outputPath, pairs); err != nil {
			return nil, err
		}
		return []string{outputPath}, nil
	}

	logger.Info("Splitting %d records into %d files (%d records per file)",
		total, numChunks, w.maxRecords)

	paths := make([]string, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * w.maxRecords
		end := start + w.maxRecords
		if end > total {
			end = total
		}
		path := chunkPath(outputPath, i+1)
		if err := w.writeChunk(path, pairs[start:end]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeChunk(path string, pairs []domain.KeyValuePair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range pairs {
		row := []string{p.Key, w.preserver.Preserve(p.Value), p.SourceFile}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	logger.Debug("Wrote %d records to: %s", len(pairs), path)
	return nil
}

// chunkPath inserts a 1-indexed, zero-padded part number before the
// extension: out.csv -> out_part001.csv.
func chunkPath(base string, number int) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_part%03d%s", stem, number, ext)
}
