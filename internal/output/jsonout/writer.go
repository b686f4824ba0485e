// Package jsonout renders mapped document trees as indented UTF-8
// JSON, optionally flattening them into a path-keyed object first.
package jsonout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/flatten"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// Writer produces JSON output for converted documents.
type Writer struct {
	flattener *flatten.Flattener // nil when flattening is disabled
}

// NewWriter creates a JSON writer. When flattenEnabled is true the
// document tree is flattened with the given separator before writing.
func NewWriter(flattenEnabled bool, separator string) *Writer {
	w := &Writer{}
	if flattenEnabled {
		w.flattener = flatten.New(separator)
	}
	return w
}

// Process applies the configured flattening transform, if any.
func (w *Writer) Process(v domain.Value) domain.Value {
	if w.flattener == nil {
		return v
	}
	return w.flattener.Flatten(v)
}

// Marshal renders v as 2-space indented JSON. Entry order is
// preserved, and non-ASCII and HTML-significant characters are
// emitted literally. json.MarshalIndent is not usable here: it
// re-escapes &, < and > in the output of a custom Marshaler.
func Marshal(v domain.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteFile writes v as indented JSON to path.
func (w *Writer) WriteFile(v domain.Value, path string) error {
	data, err := Marshal(w.Process(v))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	logger.Debug("Wrote JSON to: %s", path)
	return nil
}
