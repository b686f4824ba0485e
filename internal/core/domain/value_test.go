package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsAbsent(t *testing.T) {
	var v Value
	assert.Equal(t, KindAbsent, v.Kind())
	assert.Equal(t, 0, v.Len())
}

func TestValue_SetPreservesInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("zebra", NewScalar("1"))
	obj.Set("alpha", NewScalar("2"))
	obj.Set("mid", NewScalar("3"))

	keys := make([]string, 0, obj.Len())
	for _, e := range obj.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"zebra", "alpha", "mid"}, keys)
}

func TestValue_SetReplacesInPlace(t *testing.T) {
	obj := NewObject()
	obj.Set("a", NewScalar("1"))
	obj.Set("b", NewScalar("2"))
	obj.Set("a", NewScalar("updated"))

	require.Equal(t, 2, obj.Len())
	assert.Equal(t, "a", obj.Entries()[0].Key)
	got, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, "updated", got.Scalar())
}

func TestValue_GetMissing(t *testing.T) {
	obj := NewObject()
	_, ok := obj.Get("nope")
	assert.False(t, ok)

	_, ok = NewScalar("x").Get("nope")
	assert.False(t, ok)
}

func TestValue_ArrayAppend(t *testing.T) {
	arr := NewArray(NewScalar("a"))
	arr.Append(NewScalar("b"))
	require.Equal(t, 2, arr.Len())
	assert.Equal(t, "b", arr.Items()[1].Scalar())
}

func TestValue_MarshalJSON_OrderedObject(t *testing.T) {
	inner := NewObject()
	inner.Set("value", NewScalar("1"))

	obj := NewObject()
	obj.Set("Invoice", inner)

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"Invoice":{"value":"1"}}`, string(data))
}

func TestValue_MarshalJSON_Variants(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"absent", Value{}, `null`},
		{"scalar", NewScalar("hi"), `"hi"`},
		{"empty object", NewObject(), `{}`},
		{"empty array", NewArray(), `[]`},
		{"array", NewArray(NewScalar("a"), NewScalar("b")), `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestValue_MarshalJSON_NonASCIILiteral(t *testing.T) {
	obj := NewObject()
	obj.Set("Name", NewScalar("Grün & Söhne <GmbH>"))

	// Called directly: json.Marshal would re-escape &, < and > in the
	// Marshaler's output. Callers that need the literal bytes must use
	// an encoder with HTML escaping disabled.
	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	// Non-ASCII and HTML-significant characters stay literal.
	assert.Equal(t, `{"Name":"Grün & Söhne <GmbH>"}`, string(data))
}

func TestValue_MarshalJSON_Escaping(t *testing.T) {
	obj := NewObject()
	obj.Set("q", NewScalar("say \"hi\"\n\tdone\x01"))

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	want := "{\"q\":\"say \\\"hi\\\"\\n\\tdone\\u0001\"}"
	assert.Equal(t, want, string(data))
}

func TestValue_MarshalIndentReindentsNested(t *testing.T) {
	inner := NewObject()
	inner.Set("ID", NewScalar("42"))
	obj := NewObject()
	obj.Set("Invoice", inner)

	data, err := json.MarshalIndent(obj, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Invoice\": {\n    \"ID\": \"42\"\n  }\n}", string(data))
}
