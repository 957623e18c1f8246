package graph

import (
	"testing"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(containment bool) *NodeRegistry {
	return NewNodeRegistry(NodeRegistryParams{
		ContainmentMerge:     containment,
		MinContainmentLength: 3,
	})
}

func TestNodeRegistryUpsert(t *testing.T) {
	t.Run("repeat increments frequency", func(t *testing.T) {
		r := newTestRegistry(true)
		assert.Equal(t, "juan", r.Upsert("Juan", "Juan", "PERSON", "d1"))
		assert.Equal(t, "juan", r.Upsert("Juan", "Juan", "PERSON", "d1"))

		require.Equal(t, 1, r.Len())
		node, ok := r.Get("juan")
		require.True(t, ok)
		assert.Equal(t, 2, node.Frequency)
		assert.Equal(t, []string{"d1"}, node.DocumentIDs)
	})

	t.Run("rejections", func(t *testing.T) {
		r := newTestRegistry(true)
		assert.Empty(t, r.Upsert("", "x", "PERSON", "d1"))
		assert.Empty(t, r.Upsert("   ", "x", "PERSON", "d1"))
		assert.Empty(t, r.Upsert("el", "el", common.ConceptType, "d1"))
		assert.Empty(t, r.Upsert("42", "42", "NUMBER", "d1"))
		assert.Empty(t, r.Upsert("tres", "tres", "NUMBER", "d1"))
		assert.Equal(t, 0, r.Len())

		assert.Equal(t, "1999", r.Upsert("1999", "1999", "NUMBER", "d1"))
		assert.Equal(t, 1, r.Len())
	})

	t.Run("empty type becomes concept", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("casa", "casa", "", "d1")
		node, _ := r.Get("casa")
		assert.Equal(t, common.ConceptType, node.Type)
	})

	t.Run("first specific tag wins", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("acme", "acme", common.ConceptType, "d1")
		r.Upsert("acme", "Acme", "ORGANIZATION", "d1")
		r.Upsert("acme", "Acme", "LOCATION", "d1")
		r.Upsert("acme", "Acme", common.ConceptType, "d1")

		node, _ := r.Get("acme")
		assert.Equal(t, "ORGANIZATION", node.Type)
		assert.Equal(t, 4, node.Frequency)
	})

	t.Run("name prefers longer form or replaces raw id", func(t *testing.T) {
		r := newTestRegistry(false)
		r.Upsert("madrid", "", "LOCATION", "d1")
		node, _ := r.Get("madrid")
		assert.Equal(t, "madrid", node.Name)

		r.Upsert("madrid", "Madrid", "LOCATION", "d1")
		node, _ = r.Get("madrid")
		assert.Equal(t, "Madrid", node.Name)

		r.Upsert("madrid", "MAD", "LOCATION", "d1")
		node, _ = r.Get("madrid")
		assert.Equal(t, "Madrid", node.Name)

		r.Upsert("madrid", "Madrid ", "LOCATION", "d1")
		node, _ = r.Get("madrid")
		assert.Equal(t, "Madrid", node.Name)
	})

	t.Run("document ids are united", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("juan", "Juan", "PERSON", "d2")
		r.Upsert("juan", "Juan", "PERSON", "d1")
		r.Upsert("juan", "Juan", "PERSON", "")
		node, _ := r.Get("juan")
		assert.Equal(t, []string{"d1", "d2"}, node.DocumentIDs)
		assert.Equal(t, 3, node.Frequency)
	})
}

func TestNodeRegistryContainment(t *testing.T) {
	t.Run("shorter candidate routes to container", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("juan pérez", "Juan Pérez", "PERSON", "d1")
		id := r.Upsert("juan", "Juan", "PERSON", "d2")

		assert.Equal(t, "juan pérez", id)
		assert.Equal(t, 1, r.Len())
		node, _ := r.Get("juan pérez")
		assert.Equal(t, 2, node.Frequency)
		assert.Equal(t, []string{"d1", "d2"}, node.DocumentIDs)
		assert.Equal(t, "Juan Pérez", node.Name)
		assert.Empty(t, r.TakeRenames())
	})

	t.Run("contained candidate keeps container name", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("casa blanca", "casa blanca", common.ConceptType, "d1")
		id := r.Upsert("casa", "casa", common.ConceptType, "d1")

		assert.Equal(t, "casa blanca", id)
		node, ok := r.Get("casa blanca")
		require.True(t, ok)
		assert.Equal(t, "casa blanca", node.Name)
		assert.Equal(t, 2, node.Frequency)
	})

	t.Run("resolve follows containment", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("casa blanca", "Casa Blanca", common.ConceptType, "d1")

		id, ok := r.Resolve("Casa")
		assert.True(t, ok)
		assert.Equal(t, "casa blanca", id)
		id, ok = r.Resolve("casa blanca")
		assert.True(t, ok)
		assert.Equal(t, "casa blanca", id)
		_, ok = r.Resolve("perro")
		assert.False(t, ok)
		_, ok = r.Resolve("  ")
		assert.False(t, ok)

		off := newTestRegistry(false)
		off.Upsert("casa blanca", "Casa Blanca", common.ConceptType, "d1")
		_, ok = off.Resolve("casa")
		assert.False(t, ok)
	})

	t.Run("longer candidate absorbs contained nodes", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("juan", "Juan", "PERSON", "d1")
		r.Upsert("pérez", "Pérez", common.ConceptType, "d1")
		id := r.Upsert("juan pérez", "Juan Pérez", common.ConceptType, "d2")

		assert.Equal(t, "juan pérez", id)
		assert.Equal(t, 1, r.Len())
		node, _ := r.Get("juan pérez")
		assert.Equal(t, 3, node.Frequency)
		assert.Equal(t, "PERSON", node.Type)
		assert.Equal(t, []string{"d1", "d2"}, node.DocumentIDs)

		renames := r.TakeRenames()
		assert.Equal(t, []Rename{
			{From: "juan", To: "juan pérez"},
			{From: "pérez", To: "juan pérez"},
		}, renames)
		assert.Empty(t, r.TakeRenames())

		values := r.Values()
		require.Len(t, values, 1)
	})

	t.Run("longest container wins", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("banco de españa", "Banco de España", "ORGANIZATION", "d1")
		r.Upsert("españa", "España", "LOCATION", "d1")
		// españa was routed into the first node on insert
		assert.Equal(t, 1, r.Len())
	})

	t.Run("short ids are not merged", func(t *testing.T) {
		r := newTestRegistry(true)
		r.Upsert("ana", "Ana", "PERSON", "d1")
		r.Upsert("ue", "UE", "ORGANIZATION", "d1")
		r.Upsert("mariana", "Mariana", "PERSON", "d1")

		// "ue" is below the minimum length and stays; "ana" is absorbed.
		assert.Equal(t, 2, r.Len())
		_, ok := r.Get("ue")
		assert.True(t, ok)
		_, ok = r.Get("ana")
		assert.False(t, ok)
	})

	t.Run("disabled", func(t *testing.T) {
		r := newTestRegistry(false)
		r.Upsert("juan", "Juan", "PERSON", "d1")
		r.Upsert("juan pérez", "Juan Pérez", "PERSON", "d1")
		assert.Equal(t, 2, r.Len())
		assert.Empty(t, r.TakeRenames())
	})
}

func TestNodeRegistryMerge(t *testing.T) {
	r := newTestRegistry(false)
	r.Upsert("juan", "Juan", common.ConceptType, "d1")
	r.Upsert("él", "él", "PERSON", "d2")
	r.Upsert("presidente", "presidente", "PERSON", "d2")
	r.Upsert("presidente", "presidente", "PERSON", "d3")

	assert.True(t, r.Merge("juan", "presidente"))
	assert.False(t, r.Merge("juan", "presidente"))
	assert.False(t, r.Merge("juan", "juan"))
	assert.False(t, r.Merge("missing", "juan"))

	node, _ := r.Get("juan")
	assert.Equal(t, 3, node.Frequency)
	assert.Equal(t, "PERSON", node.Type)
	assert.Equal(t, []string{"d1", "d2", "d3"}, node.DocumentIDs)
	_, ok := r.Get("presidente")
	assert.False(t, ok)
}

func TestNodeRegistryValuesOrder(t *testing.T) {
	r := newTestRegistry(false)
	for _, id := range []string{"zeta", "alfa", "madrid", "beta"} {
		r.Upsert(id, id, common.ConceptType, "d1")
	}
	r.Remove("madrid")
	r.SetImportance("alfa", 1.5)

	values := r.Values()
	require.Len(t, values, 3)
	assert.Equal(t, "zeta", values[0].ID)
	assert.Equal(t, "alfa", values[1].ID)
	assert.Equal(t, "beta", values[2].ID)
	assert.Equal(t, 1.5, values[1].Importance)
}
