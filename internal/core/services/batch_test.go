package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

type stubSummaryStore struct {
	saved *domain.ProcessingSummary
	calls int
}

func (s *stubSummaryStore) Save(_ context.Context, summary *domain.ProcessingSummary) (string, error) {
	s.saved = summary
	s.calls++
	return "/tmp/summary.json", nil
}

func newBatch(t *testing.T, inputDir string, dryRun bool, store *stubSummaryStore) (*BatchService, string) {
	t.Helper()
	outputDir := filepath.Join(t.TempDir(), "out")
	conv := NewConvertService(domain.DefaultConfig(), domain.FormatJSON)
	return NewBatchService(conv, inputDir, outputDir, dryRun, 4, store, nil), outputDir
}

func TestBatchService_EmptyDirectory(t *testing.T) {
	store := &stubSummaryStore{}
	svc, _ := newBatch(t, t.TempDir(), false, store)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalFiles)
	assert.Equal(t, summary.StartTime, summary.EndTime)
	assert.Zero(t, store.calls, "empty run must not persist a summary")
}

func TestBatchService_DryRun(t *testing.T) {
	inputDir := t.TempDir()
	writeFixture(t, inputDir, "a.xml", invoiceXML)
	writeFixture(t, inputDir, "b.xml", invoiceXML)

	store := &stubSummaryStore{}
	svc, outputDir := newBatch(t, inputDir, true, store)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalFiles)
	assert.Empty(t, summary.Results)
	assert.Zero(t, store.calls, "dry run must not persist a summary")
	assert.NoDirExists(t, outputDir)
}

func TestBatchService_MixedResults(t *testing.T) {
	inputDir := t.TempDir()
	writeFixture(t, inputDir, "good1.xml", invoiceXML)
	writeFixture(t, inputDir, "good2.xml", invoiceXML)
	writeFixture(t, inputDir, "bad.xml", "<Invoice><ID>")

	store := &stubSummaryStore{}
	svc, outputDir := newBatch(t, inputDir, false, store)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalFiles)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, domain.FormatJSON, summary.OutputFormat)
	assert.False(t, summary.EndTime.Before(summary.StartTime))

	assert.FileExists(t, filepath.Join(outputDir, "good1.json"))
	assert.FileExists(t, filepath.Join(outputDir, "good2.json"))
	assert.NoFileExists(t, filepath.Join(outputDir, "bad.json"))

	require.Equal(t, 1, store.calls)
	assert.Same(t, summary, store.saved)
}

func TestBatchService_MoreFilesThanWorkers(t *testing.T) {
	inputDir := t.TempDir()
	for i := 0; i < 6; i++ {
		writeFixture(t, inputDir, fmt.Sprintf("invoice%d.xml", i), invoiceXML)
	}

	store := &stubSummaryStore{}
	outputDir := filepath.Join(t.TempDir(), "out")
	conv := NewConvertService(domain.DefaultConfig(), domain.FormatJSON)
	svc := NewBatchService(conv, inputDir, outputDir, false, 2, store, nil)

	// The pool limit is below the file count, so the run must make
	// progress while submissions are still pending.
	done := make(chan struct{})
	var summary *domain.ProcessingSummary
	var runErr error
	go func() {
		defer close(done)
		summary, runErr = svc.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("batch run did not finish with more files than workers")
	}

	require.NoError(t, runErr)
	assert.Equal(t, 6, summary.TotalFiles)
	assert.Equal(t, 6, summary.Successful)
	assert.Zero(t, summary.Failed)
	for i := 0; i < 6; i++ {
		assert.FileExists(t, filepath.Join(outputDir, fmt.Sprintf("invoice%d.json", i)))
	}
}

func TestBatchService_FailureCarriesMessage(t *testing.T) {
	inputDir := t.TempDir()
	writeFixture(t, inputDir, "bad.xml", "not xml at all")

	store := &stubSummaryStore{}
	svc, _ := newBatch(t, inputDir, false, store)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	r := summary.Results[0]
	assert.False(t, r.Success)
	assert.NotEmpty(t, r.ErrorMessage)
	assert.Empty(t, r.OutputPaths)
}

func TestDiscoverXMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.xml", "<a/>")
	writeFixture(t, dir, "B.XML", "<b/>")
	writeFixture(t, dir, "notes.txt", "skip me")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested.xml"), 0o755))

	files, err := discoverXMLFiles(dir)
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Contains(t, files, filepath.Join(dir, "a.xml"))
	assert.Contains(t, files, filepath.Join(dir, "B.XML"))
}

func TestDiscoverXMLFiles_MissingDirectory(t *testing.T) {
	_, err := discoverXMLFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
