package domain

// ValueKind discriminates the variants of a Value.
type ValueKind uint8

// Value variants.
const (
	// KindAbsent is the zero value: no content at all.
	KindAbsent ValueKind = iota

	// KindScalar holds a single text value.
	KindScalar

	// KindObject holds ordered key/value entries.
	KindObject

	// KindArray holds an ordered list of values.
	KindArray
)

// Value is a tagged union over scalar, object, array and absent.
// It represents the output of the tree mapper and the input of the
// path flattener.
//
// Object entries and array items preserve insertion order, which
// reflects document order. Order determines array grouping and index
// assignment during flattening, so an unordered map must never be
// substituted here.
//
// The zero Value is Absent.
type Value struct {
	kind    ValueKind
	scalar  string
	entries []Entry
	items   []Value
}

// Entry is one ordered key/value member of an object Value.
type Entry struct {
	Key   string
	Value Value
}

// NewScalar returns a scalar Value holding s.
func NewScalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// NewObject returns an empty object Value.
func NewObject() Value {
	return Value{kind: KindObject}
}

// NewArray returns an array Value holding the given items in order.
func NewArray(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Scalar returns the text of a scalar value, or "" for other kinds.
func (v Value) Scalar() string {
	return v.scalar
}

// Entries returns the ordered members of an object value.
// The returned slice must not be mutated.
func (v Value) Entries() []Entry {
	return v.entries
}

// Items returns the ordered elements of an array value.
// The returned slice must not be mutated.
func (v Value) Items() []Value {
	return v.items
}

// Len returns the number of entries (object) or items (array).
// Scalar and absent values have length zero.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.entries)
	case KindArray:
		return len(v.items)
	default:
		return 0
	}
}

// Get returns the value stored under key in an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Set inserts val under key, appending a new entry when the key is
// unseen and replacing in place (position preserved) when it exists.
// Set panics if v is not an object; callers construct objects with
// NewObject before setting members.
func (v *Value) Set(key string, val Value) {
	if v.kind != KindObject {
		panic("domain: Set on non-object Value")
	}
	for i := range v.entries {
		if v.entries[i].Key == key {
			v.entries[i].Value = val
			return
		}
	}
	v.entries = append(v.entries, Entry{Key: key, Value: val})
}

// Append adds an item to the end of an array value.
func (v *Value) Append(item Value) {
	if v.kind != KindArray {
		panic("domain: Append on non-array Value")
	}
	v.items = append(v.items, item)
}

// MarshalJSON renders the value as compact JSON preserving entry
// order. Non-ASCII characters are emitted literally.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil), nil
}

func (v Value) appendJSON(dst []byte) []byte {
	switch v.kind {
	case KindScalar:
		return appendQuoted(dst, v.scalar)
	case KindObject:
		dst = append(dst, '{')
		for i, e := range v.entries {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendQuoted(dst, e.Key)
			dst = append(dst, ':')
			dst = e.Value.appendJSON(dst)
		}
		return append(dst, '}')
	case KindArray:
		dst = append(dst, '[')
		for i, item := range v.items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = item.appendJSON(dst)
		}
		return append(dst, ']')
	default:
		return append(dst, "null"...)
	}
}

const hexDigits = "0123456789abcdef"

// appendQuoted writes s as a JSON string. Only the characters JSON
// requires to be escaped are escaped; everything else, including
// non-ASCII runes and HTML-significant characters, passes through
// verbatim.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
		start = i + 1
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
