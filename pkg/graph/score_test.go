package graph

import (
	"math"
	"testing"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoringPolicy(t *testing.T) {
	for in, want := range map[string]ScoringPolicy{
		"":         ScoringLog,
		"log":      ScoringLog,
		" LOG ":    ScoringLog,
		"degree":   ScoringDegree,
		"Degree\n": ScoringDegree,
	} {
		got, err := ParseScoringPolicy(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseScoringPolicy("pagerank")
	assert.Error(t, err)
}

func TestScoringPolicyImportance(t *testing.T) {
	assert.InDelta(t, math.Log(2), ScoringLog.Importance(1, 5), 1e-9)
	assert.InDelta(t, math.Log(4), ScoringLog.Importance(3, 0), 1e-9)
	assert.Equal(t, 6.0, ScoringDegree.Importance(2, 2))
	assert.Equal(t, 3.0, ScoringDegree.Importance(3, 0))
}

func TestPruneIsolated(t *testing.T) {
	nodes := newTestRegistry(false)
	edges := NewEdgeStore()
	nodes.Upsert("juan", "Juan", "PERSON", "d1")
	nodes.Upsert("madrid", "Madrid", "LOCATION", "d1")
	nodes.Upsert("casa", "casa", common.ConceptType, "d1")
	nodes.Upsert("perro", "perro", common.ConceptType, "d1")
	nodes.Upsert("perro", "perro", common.ConceptType, "d1")
	edges.AddEdge("juan", "madrid", "vivir")

	removed := pruneIsolated(nodes, edges, 2)

	assert.Equal(t, 1, removed)
	_, ok := nodes.Get("casa")
	assert.False(t, ok, "frequency 1 without edges is pruned")
	_, ok = nodes.Get("juan")
	assert.True(t, ok, "frequency 1 with an edge survives")
	_, ok = nodes.Get("perro")
	assert.True(t, ok, "frequent isolated node survives")
}

func TestScoreNodes(t *testing.T) {
	nodes := newTestRegistry(false)
	edges := NewEdgeStore()
	nodes.Upsert("juan", "Juan", "PERSON", "d1")
	nodes.Upsert("juan", "Juan", "PERSON", "d1")
	nodes.Upsert("madrid", "Madrid", "LOCATION", "d1")
	nodes.Upsert("acme", "Acme", "ORGANIZATION", "d1")
	edges.AddEdge("juan", "madrid", "vivir")
	edges.AddEdge("juan", "acme", "trabajar")

	scoreNodes(nodes, edges, ScoringLog)
	juan, _ := nodes.Get("juan")
	madrid, _ := nodes.Get("madrid")
	assert.InDelta(t, math.Log(3), juan.Importance, 1e-9)
	assert.InDelta(t, math.Log(2), madrid.Importance, 1e-9)

	scoreNodes(nodes, edges, ScoringDegree)
	juan, _ = nodes.Get("juan")
	madrid, _ = nodes.Get("madrid")
	assert.Equal(t, 6.0, juan.Importance)
	assert.Equal(t, 2.0, madrid.Importance)
}
