package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

func makePairs(n int) []domain.KeyValuePair {
	pairs := make([]domain.KeyValuePair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, domain.KeyValuePair{
			Key:        fmt.Sprintf("Invoice/Line[%d]/ID", i),
			Value:      fmt.Sprintf("v%d", i),
			SourceFile: "inv.xml",
		})
	}
	return pairs
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter_SingleFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.csv")
	w := NewWriter(50000, domain.PreserveApostrophe)

	paths, err := w.Write(out, makePairs(3))
	require.NoError(t, err)
	require.Equal(t, []string{out}, paths)

	rows := readCSV(t, out)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Key", "Value", "Filename"}, rows[0])
	assert.Equal(t, []string{"Invoice/Line[0]/ID", "'v0", "inv.xml"}, rows[1])
}

func TestWriter_ChunkingContiguousAndLossless(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "big.csv")
	w := NewWriter(2, domain.PreserveApostrophe)
	pairs := makePairs(5)

	paths, err := w.Write(out, pairs)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "big_part001.csv"),
		filepath.Join(dir, "big_part002.csv"),
		filepath.Join(dir, "big_part003.csv"),
	}, paths)

	// Concatenating chunks (minus headers) reproduces the original
	// pair sequence exactly.
	var all [][]string
	for _, p := range paths {
		rows := readCSV(t, p)
		assert.Equal(t, []string{"Key", "Value", "Filename"}, rows[0])
		all = append(all, rows[1:]...)
	}
	require.Len(t, all, len(pairs))
	for i, row := range all {
		assert.Equal(t, pairs[i].Key, row[0])
		assert.Equal(t, "'"+pairs[i].Value, row[1])
	}

	// Row distribution: 2, 2, 1.
	assert.Len(t, readCSV(t, paths[0]), 3)
	assert.Len(t, readCSV(t, paths[1]), 3)
	assert.Len(t, readCSV(t, paths[2]), 2)
}

func TestWriter_ExactMultipleBoundary(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "even.csv")
	w := NewWriter(2, domain.PreserveApostrophe)

	paths, err := w.Write(out, makePairs(4))
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestWriter_EmptyInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "empty.csv")
	w := NewWriter(10, domain.PreserveApostrophe)

	paths, err := w.Write(out, nil)
	require.NoError(t, err)
	assert.Empty(t, paths)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestChunkPath(t *testing.T) {
	assert.Equal(t, "/tmp/out_part001.csv", chunkPath("/tmp/out.csv", 1))
	assert.Equal(t, "/tmp/out_part042.csv", chunkPath("/tmp/out.csv", 42))
	assert.Equal(t, "noext_part003", chunkPath("noext", 3))
}

func TestPreserver_Methods(t *testing.T) {
	tests := []struct {
		method domain.PreservationMethod
		in     string
		want   string
	}{
		{domain.PreserveApostrophe, "0123", "'0123"},
		{domain.PreserveQuotes, "плain", `"плain"`},
		{domain.PreserveQuotes, `say "hi"`, `"say ""hi"""`},
		{domain.PreserveBrackets, "2024-01-01", "[2024-01-01]"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method)+"/"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPreserver(tt.method).Preserve(tt.in))
		})
	}
}

func TestPreserver_EmptyPassesThrough(t *testing.T) {
	for _, m := range []domain.PreservationMethod{
		domain.PreserveApostrophe, domain.PreserveQuotes, domain.PreserveBrackets,
	} {
		assert.Empty(t, NewPreserver(m).Preserve(""))
	}
}

func TestWriter_QuotesSurviveCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "q.csv")
	w := NewWriter(10, domain.PreserveQuotes)

	pairs := []domain.KeyValuePair{{Key: "K", Value: "v", SourceFile: "f.xml"}}
	_, err := w.Write(out, pairs)
	require.NoError(t, err)

	rows := readCSV(t, out)
	// encoding/csv unescapes its own quoting; the preservation quotes
	// remain part of the field value.
	assert.Equal(t, `"v"`, rows[1][1])
}
