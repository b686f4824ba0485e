package xmldoc

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// valueKey is the object member holding an element's own text.
const valueKey = "value"

// Mapper converts a parsed element tree into a nested Value,
// resolving element and attribute names against a namespace table.
type Mapper struct {
	namespaces     *NamespaceTable
	preservePrefix bool
}

// NewMapper creates a mapper bound to one document's namespace table.
func NewMapper(namespaces *NamespaceTable, preservePrefix bool) *Mapper {
	return &Mapper{namespaces: namespaces, preservePrefix: preservePrefix}
}

// Map converts the document root into a Value. The result is an
// object with exactly one key, the root's resolved name, pointing at
// the mapped root content.
func (m *Mapper) Map(root *etree.Element) domain.Value {
	wrapper := domain.NewObject()
	wrapper.Set(m.elementName(root), m.mapElement(root))
	return wrapper
}

// mapElement recursively converts one element. An element with no
// attributes, text or children maps to an empty object, never to an
// absent value.
func (m *Mapper) mapElement(el *etree.Element) domain.Value {
	obj := domain.NewObject()

	for _, a := range el.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		obj.Set(m.attributeName(a), domain.NewScalar(a.Value))
	}

	if text := strings.TrimSpace(el.Text()); text != "" {
		obj.Set(valueKey, domain.NewScalar(text))
	}

	// Group children by resolved name in first-seen document order.
	// A name seen once collapses to its single value; two or more
	// become an array preserving document order.
	var names []string
	groups := make(map[string][]domain.Value)
	for _, child := range el.ChildElements() {
		name := m.elementName(child)
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], m.mapElement(child))
	}
	for _, name := range names {
		vals := groups[name]
		if len(vals) == 1 {
			obj.Set(name, vals[0])
		} else {
			obj.Set(name, domain.NewArray(vals...))
		}
	}

	// Trailing text after the closing tag merges once onto the value
	// entry, space-joined when direct text is also present.
	if tail := strings.TrimSpace(tailText(el)); tail != "" {
		if existing, ok := obj.Get(valueKey); ok {
			obj.Set(valueKey, domain.NewScalar(existing.Scalar()+" "+tail))
		} else {
			obj.Set(valueKey, domain.NewScalar(tail))
		}
	}

	return obj
}

// elementName resolves an element's short name. The namespace URI is
// stripped; when prefix preservation is enabled and a prefix is known
// for the URI it is re-attached as "prefix:local". Unknown URIs fall
// back to the bare local name.
func (m *Mapper) elementName(el *etree.Element) string {
	local := el.Tag
	if !m.preservePrefix {
		return local
	}
	uri := el.NamespaceURI()
	if uri == "" {
		return local
	}
	if prefix := m.namespaces.PrefixFor(uri); prefix != "" {
		return prefix + ":" + local
	}
	return local
}

// attributeName resolves an attribute name to "@local", or
// "@prefix:local" when preservation is enabled and a prefix is known.
func (m *Mapper) attributeName(a etree.Attr) string {
	if m.preservePrefix {
		if uri := a.NamespaceURI(); uri != "" {
			if prefix := m.namespaces.PrefixFor(uri); prefix != "" {
				return "@" + prefix + ":" + a.Key
			}
		}
	}
	return "@" + a.Key
}

// DocumentType derives the short document-type tag from the root
// element: always the bare local name, regardless of the prefix
// preservation option.
func DocumentType(root *etree.Element) string {
	local := root.Tag
	if i := strings.LastIndex(local, ":"); i >= 0 {
		local = local[i+1:]
	}
	return local
}

// isNamespaceDecl reports whether an attribute is an xmlns
// declaration rather than document data.
func isNamespaceDecl(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns")
}

// tailText returns the character data between el's closing tag and
// the next sibling element (or the parent's closing tag). Comments
// and processing instructions in that span are not tail boundaries.
func tailText(el *etree.Element) string {
	parent := el.Parent()
	if parent == nil {
		return ""
	}
	var sb strings.Builder
	seen := false
	for _, tok := range parent.Child {
		if !seen {
			if e, ok := tok.(*etree.Element); ok && e == el {
				seen = true
			}
			continue
		}
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Comment, *etree.ProcInst:
			// Tail text resumes after these.
		default:
			return sb.String()
		}
	}
	return sb.String()
}
