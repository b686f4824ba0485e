package csvout

import (
	"strings"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// Preserver applies a spreadsheet-safety transform to values before
// they are written, so applications like Excel do not reinterpret
// text as numbers, dates or formulas.
type Preserver struct {
	method domain.PreservationMethod
}

// NewPreserver creates a preserver for the given method. The method
// is validated by Config.Validate before any writer is constructed.
func NewPreserver(method domain.PreservationMethod) *Preserver {
	return &Preserver{method: method}
}

// Preserve transforms a single value. Empty values pass through
// unchanged.
func (p *Preserver) Preserve(value string) string {
	if value == "" {
		return value
	}
	switch p.method {
	case domain.PreserveApostrophe:
		return "'" + value
	case domain.PreserveQuotes:
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	case domain.PreserveBrackets:
		return "[" + value + "]"
	default:
		return value
	}
}
