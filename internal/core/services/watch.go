package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ublkit-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// settleDelay is how long a file must stay quiet after its last write
// event before it is converted. Exporters write invoices in several
// chunks; converting on the first event would read a partial file.
const settleDelay = 500 * time.Millisecond

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// WatchService converts XML files as they appear in a directory.
type WatchService struct {
	converter *ConvertService
	inputDir  string
	outputDir string

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatchService creates a watcher over inputDir writing to outputDir.
func NewWatchService(converter *ConvertService, inputDir, outputDir string) *WatchService {
	return &WatchService{
		converter: converter,
		inputDir:  inputDir,
		outputDir: outputDir,
		pending:   make(map[string]*time.Timer),
	}
}

// Watch blocks until ctx is cancelled, converting each XML file
// created or modified in the input directory after it settles.
func (s *WatchService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.inputDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.inputDir, err)
	}
	logger.Info("Watching for XML files in: %s", s.inputDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".xml") {
				continue
			}
			s.schedule(ctx, ev.Name)

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watch error: %v", werr)
		}
	}
}

// schedule arms (or re-arms) the settle timer for a path. The file is
// converted once settleDelay passes without a further event for it.
func (s *WatchService) schedule(ctx context.Context, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	s.pending[path] = time.AfterFunc(settleDelay, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		s.handleFile(ctx, path)
	})
}

func (s *WatchService) handleFile(ctx context.Context, path string) {
	conv := s.converter.Convert(ctx, path)
	if !conv.Success {
		logger.Error("Failed to convert %s: %s", path, conv.ErrorMessage)
		return
	}

	outputPath := filepath.Join(s.outputDir, s.converter.OutputFileName(path))
	paths, err := s.converter.Write(conv, outputPath)
	if err != nil {
		logger.Error("Failed to write output for %s: %v", path, err)
		return
	}
	logger.Info("Converted %s -> %s", path, strings.Join(paths, ", "))
}
