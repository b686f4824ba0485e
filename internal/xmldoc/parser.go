package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// Parse converts decoded content into an element tree. The content is
// already canonical UTF-8, so any encoding named in the XML
// declaration is ignored.
func Parse(content string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedDocument, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: document has no root element", domain.ErrMalformedDocument)
	}
	return doc, nil
}

// ValidateWellFormed checks that content parses as XML. It returns a
// validity flag and, on failure, a human-readable description with
// position information when available. It must run before any
// structural mapping.
func ValidateWellFormed(content string) (bool, string) {
	if _, err := Parse(content); err != nil {
		return false, syntaxMessage(err)
	}
	return true, ""
}

// syntaxMessage renders a parse error, surfacing the line number when
// the underlying error carries one.
func syntaxMessage(err error) string {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return fmt.Sprintf("XML syntax error on line %d: %s", syn.Line, syn.Msg)
	}
	return err.Error()
}
