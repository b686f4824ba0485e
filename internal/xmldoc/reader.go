package xmldoc

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
	"github.com/custodia-labs/ublkit-cli/internal/logger"
)

// DefaultEncodingPriority is the fixed fallback sequence appended
// after the configured preferred encoding.
var DefaultEncodingPriority = []string{"utf-8", "utf-16", "iso-8859-1", "cp1252"}

// BuildEncodingPriority places the preferred encoding first, then the
// default fallback sequence, removing duplicates while preserving
// first-seen order.
func BuildEncodingPriority(preferred string) []string {
	candidates := append([]string{strings.ToLower(preferred)}, DefaultEncodingPriority...)
	seen := make(map[string]struct{}, len(candidates))
	priority := make([]string, 0, len(candidates))
	for _, enc := range candidates {
		if _, ok := seen[enc]; ok {
			continue
		}
		seen[enc] = struct{}{}
		priority = append(priority, enc)
	}
	return priority
}

// Reader decodes raw file bytes into canonical UTF-8 text, trying a
// priority list of candidate encodings until one succeeds.
type Reader struct {
	priority []string
}

// NewReader creates a reader with the given encoding priority list.
func NewReader(priority []string) *Reader {
	return &Reader{priority: priority}
}

// ReadFile reads and decodes a file, returning the UTF-8 content and
// the name of the encoding that succeeded.
func (r *Reader) ReadFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return r.Decode(data)
}

// Decode is a pure function of the input bytes: it returns the first
// successful decode paired with the encoding name used. When every
// candidate fails it returns an error wrapping
// domain.ErrEncodingExhausted and the last underlying decode error.
func (r *Reader) Decode(data []byte) (string, string, error) {
	var lastErr error
	for _, enc := range r.priority {
		content, err := decodeAs(enc, data)
		if err != nil {
			lastErr = err
			continue
		}
		logger.Debug("Decoded content with encoding: %s", enc)
		return strings.TrimPrefix(content, "\ufeff"), enc, nil
	}
	return "", "", fmt.Errorf("%w (tried: %s): %v",
		domain.ErrEncodingExhausted, strings.Join(r.priority, ", "), lastErr)
}

// decodeAs strictly decodes data with one named encoding.
func decodeAs(name string, data []byte) (string, error) {
	switch strings.ToLower(name) {
	case "utf-8":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid utf-8 byte sequence")
		}
		return string(data), nil

	case "utf-16":
		if len(data)%2 != 0 {
			return "", fmt.Errorf("utf-16 content has odd byte length %d", len(data))
		}
		if err := validateUTF16(data); err != nil {
			return "", err
		}
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("utf-16 decode: %w", err)
		}
		return string(out), nil

	case "iso-8859-1":
		// Every byte maps to a code point; this decode cannot fail.
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("iso-8859-1 decode: %w", err)
		}
		return string(out), nil

	case "cp1252":
		for i, b := range data {
			if b >= 0x80 && charmap.Windows1252.DecodeByte(b) == utf8.RuneError {
				return "", fmt.Errorf("byte 0x%02x at offset %d is undefined in cp1252", b, i)
			}
		}
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("cp1252 decode: %w", err)
		}
		return string(out), nil

	case "ascii":
		for i, b := range data {
			if b >= 0x80 {
				return "", fmt.Errorf("byte 0x%02x at offset %d is not ascii", b, i)
			}
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// validateUTF16 checks surrogate pairing on the raw code units. The
// x/text decoder substitutes U+FFFD for broken pairs instead of
// failing, and content may legitimately contain a literal U+FFFD, so
// strictness has to be enforced before decoding. Without a BOM the
// units are read little-endian, matching the decoder above.
func validateUTF16(data []byte) error {
	var order binary.ByteOrder = binary.LittleEndian
	if len(data) >= 2 && data[0] == 0xfe && data[1] == 0xff {
		order = binary.BigEndian
	}
	for i := 0; i+1 < len(data); i += 2 {
		u := order.Uint16(data[i:])
		switch {
		case u >= 0xd800 && u <= 0xdbff:
			if i+3 >= len(data) {
				return fmt.Errorf("utf-16 content ends with an unpaired high surrogate")
			}
			if next := order.Uint16(data[i+2:]); next < 0xdc00 || next > 0xdfff {
				return fmt.Errorf("utf-16 high surrogate at offset %d is not followed by a low surrogate", i)
			}
			i += 2
		case u >= 0xdc00 && u <= 0xdfff:
			return fmt.Errorf("utf-16 low surrogate at offset %d has no preceding high surrogate", i)
		}
	}
	return nil
}
