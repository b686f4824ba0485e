package xmldoc

import "github.com/beevik/etree"

// NamespaceTable holds the prefix declarations of one document root:
// a URI-to-prefix map plus the distinguished default-namespace URI
// (the unprefixed xmlns declaration, if any).
//
// A table is recomputed fresh for every document and never shared.
type NamespaceTable struct {
	uriToPrefix map[string]string
	defaultURI  string
}

// NewNamespaceTable extracts the namespace declarations from the
// document root element. A nil root yields an empty table.
func NewNamespaceTable(root *etree.Element) *NamespaceTable {
	t := &NamespaceTable{uriToPrefix: make(map[string]string)}
	if root == nil {
		return t
	}
	for _, a := range root.Attr {
		switch {
		case a.Space == "xmlns":
			t.uriToPrefix[a.Value] = a.Key
		case a.Space == "" && a.Key == "xmlns":
			t.defaultURI = a.Value
		}
	}
	return t
}

// PrefixFor returns the declared prefix for a namespace URI. It
// returns "" when the URI is the default namespace or is unknown.
func (t *NamespaceTable) PrefixFor(uri string) string {
	if uri == t.defaultURI {
		return ""
	}
	return t.uriToPrefix[uri]
}

// IsDefault reports whether uri is the document's default namespace.
func (t *NamespaceTable) IsDefault(uri string) bool {
	return uri != "" && uri == t.defaultURI
}
