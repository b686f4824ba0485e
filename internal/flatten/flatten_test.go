package flatten

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ublkit-cli/internal/core/domain"
)

// leafObj builds {"value": s}.
func leafObj(s string) domain.Value {
	obj := domain.NewObject()
	obj.Set("value", domain.NewScalar(s))
	return obj
}

// invoiceTree builds {"Invoice": {"ID": {"value": "1"}}}.
func invoiceTree() domain.Value {
	inv := domain.NewObject()
	inv.Set("ID", leafObj("1"))
	root := domain.NewObject()
	root.Set("Invoice", inv)
	return root
}

func TestFlattener_SimpleHoist(t *testing.T) {
	f := New("/")
	got := f.Flatten(invoiceTree())

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `{"Invoice/ID":"1"}`, string(data))
}

func TestFlattener_ArrayIndexing(t *testing.T) {
	inv := domain.NewObject()
	inv.Set("Line", domain.NewArray(leafObj("A"), leafObj("B")))
	root := domain.NewObject()
	root.Set("Invoice", inv)

	got := New("/").Flatten(root)
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `{"Invoice/Line[0]":"A","Invoice/Line[1]":"B"}`, string(data))
}

func TestFlattener_HoistWithSiblingAttribute(t *testing.T) {
	id := domain.NewObject()
	id.Set("@currencyID", domain.NewScalar("USD"))
	id.Set("value", domain.NewScalar("100"))
	inv := domain.NewObject()
	inv.Set("ID", id)
	root := domain.NewObject()
	root.Set("Invoice", inv)

	pairs := New("/").FlattenPairs(root, "inv.xml")
	require.Len(t, pairs, 2)
	// The hoisted value comes first, then the sibling attribute nests
	// below the same path.
	assert.Equal(t, "Invoice/ID", pairs[0].Key)
	assert.Equal(t, "100", pairs[0].Value)
	assert.Equal(t, "Invoice/ID/@currencyID", pairs[1].Key)
	assert.Equal(t, "USD", pairs[1].Value)
}

func TestFlattener_PairsCarrySourceFile(t *testing.T) {
	pairs := New("/").FlattenPairs(invoiceTree(), "invoice_042.xml")
	require.Len(t, pairs, 1)
	assert.Equal(t, "invoice_042.xml", pairs[0].SourceFile)
}

func TestFlattener_CustomSeparator(t *testing.T) {
	pairs := New(" | ").FlattenPairs(invoiceTree(), "f.xml")
	require.Len(t, pairs, 1)
	assert.Equal(t, "Invoice | ID", pairs[0].Key)
}

func TestFlattener_EmptyContainers(t *testing.T) {
	root := domain.NewObject()
	root.Set("Empty", domain.NewObject())
	root.Set("None", domain.Value{})
	root.Set("List", domain.NewArray())

	// Pair mode: all become empty strings.
	pairs := New("/").FlattenPairs(root, "f.xml")
	require.Len(t, pairs, 3)
	for _, p := range pairs {
		assert.Empty(t, p.Value)
	}

	// Map mode: shape markers survive.
	flat := New("/").Flatten(root)
	data, err := json.Marshal(flat)
	require.NoError(t, err)
	assert.Equal(t, `{"Empty":{},"None":null,"List":[]}`, string(data))
}

func TestFlattener_BareRootScalarDroppedInPairMode(t *testing.T) {
	pairs := New("/").FlattenPairs(domain.NewScalar("orphan"), "f.xml")
	assert.Empty(t, pairs)
}

func TestFlattener_PathUniquenessOverLeaves(t *testing.T) {
	// Invoice with repeated lines, nested IDs and attributes: one pair
	// per leaf, all paths unique.
	line1 := domain.NewObject()
	line1.Set("ID", leafObj("L1"))
	line1.Set("Qty", leafObj("2"))
	line2 := domain.NewObject()
	line2.Set("ID", leafObj("L2"))
	line2.Set("Qty", leafObj("5"))

	total := domain.NewObject()
	total.Set("@currencyID", domain.NewScalar("EUR"))
	total.Set("value", domain.NewScalar("99.50"))

	inv := domain.NewObject()
	inv.Set("Line", domain.NewArray(line1, line2))
	inv.Set("Total", total)
	root := domain.NewObject()
	root.Set("Invoice", inv)

	pairs := New("/").FlattenPairs(root, "f.xml")
	require.Len(t, pairs, 6)

	seen := make(map[string]struct{})
	for _, p := range pairs {
		_, dup := seen[p.Key]
		assert.False(t, dup, "duplicate path %s", p.Key)
		seen[p.Key] = struct{}{}
	}
}

func TestFlattener_OrderFollowsDocumentOrder(t *testing.T) {
	inv := domain.NewObject()
	inv.Set("B", leafObj("2"))
	inv.Set("A", leafObj("1"))
	root := domain.NewObject()
	root.Set("Invoice", inv)

	pairs := New("/").FlattenPairs(root, "f.xml")
	require.Len(t, pairs, 2)
	assert.Equal(t, "Invoice/B", pairs[0].Key)
	assert.Equal(t, "Invoice/A", pairs[1].Key)
}
