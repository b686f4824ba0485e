// Package xmldoc implements the XML side of the conversion engine:
// encoding-resilient reading, well-formedness validation, namespace
// resolution and the element-tree-to-Value mapper.
//
// All state in this package is per-document. A NamespaceTable and
// Mapper are built fresh for every file and never shared.
package xmldoc
