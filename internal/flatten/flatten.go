// Package flatten reduces a nested Value tree into path-keyed form:
// either an ordered flat object (JSON route) or a list of
// KeyValuePair rows (CSV route).
package flatten

import (
	"strconv"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// valueKey is the object member hoisted to its parent's path.
const valueKey = "value"

// Flattener flattens nested values with a configurable path separator.
// Array elements are disambiguated with zero-based bracketed index
// segments appended without a separator.
type Flattener struct {
	separator string
}

// New creates a flattener using the given key separator.
func New(separator string) *Flattener {
	return &Flattener{separator: separator}
}

// Flatten reduces root to an ordered flat object. Leaf positions keep
// their shape: scalars stay scalars, empty objects/arrays and absent
// values remain as markers.
func (f *Flattener) Flatten(root domain.Value) domain.Value {
	result := domain.NewObject()
	f.flattenValue(root, "", &result)
	return result
}

// FlattenPairs reduces root to an ordered list of KeyValuePair rows
// tagged with sourceFile. Empty containers and absent values become
// empty strings. A pair whose computed path is empty is dropped.
func (f *Flattener) FlattenPairs(root domain.Value, sourceFile string) []domain.KeyValuePair {
	var pairs []domain.KeyValuePair
	f.flattenPairs(root, "", sourceFile, &pairs)
	return pairs
}

func (f *Flattener) flattenValue(v domain.Value, path string, result *domain.Value) {
	switch v.Kind() {
	case domain.KindScalar, domain.KindAbsent:
		result.Set(path, v)

	case domain.KindObject:
		if v.Len() == 0 {
			result.Set(path, domain.NewObject())
			return
		}
		if hoisted, ok := v.Get(valueKey); ok {
			result.Set(path, hoisted)
			for _, e := range v.Entries() {
				if e.Key == valueKey {
					continue
				}
				f.flattenValue(e.Value, f.joinPath(path, e.Key), result)
			}
			return
		}
		for _, e := range v.Entries() {
			f.flattenValue(e.Value, f.joinPath(path, e.Key), result)
		}

	case domain.KindArray:
		if v.Len() == 0 {
			result.Set(path, domain.NewArray())
			return
		}
		for i, item := range v.Items() {
			f.flattenValue(item, path+"["+strconv.Itoa(i)+"]", result)
		}
	}
}

func (f *Flattener) flattenPairs(v domain.Value, path, sourceFile string, pairs *[]domain.KeyValuePair) {
	emit := func(value string) {
		if path == "" {
			return
		}
		*pairs = append(*pairs, domain.KeyValuePair{
			Key:        path,
			Value:      value,
			SourceFile: sourceFile,
		})
	}

	switch v.Kind() {
	case domain.KindScalar:
		emit(v.Scalar())

	case domain.KindAbsent:
		emit("")

	case domain.KindObject:
		if v.Len() == 0 {
			emit("")
			return
		}
		if hoisted, ok := v.Get(valueKey); ok {
			emit(hoisted.Scalar())
			for _, e := range v.Entries() {
				if e.Key == valueKey {
					continue
				}
				f.flattenPairs(e.Value, f.joinPath(path, e.Key), sourceFile, pairs)
			}
			return
		}
		for _, e := range v.Entries() {
			f.flattenPairs(e.Value, f.joinPath(path, e.Key), sourceFile, pairs)
		}

	case domain.KindArray:
		if v.Len() == 0 {
			emit("")
			return
		}
		for i, item := range v.Items() {
			f.flattenPairs(item, path+"["+strconv.Itoa(i)+"]", sourceFile, pairs)
		}
	}
}

func (f *Flattener) joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + f.separator + key
}
