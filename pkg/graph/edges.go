package graph

import (
	"strings"
	"sync"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
)

// EdgeStore is the deduplicated set of edges of one graph run. Edges keep
// their first-seen order.
type EdgeStore struct {
	mu    sync.RWMutex
	edges []common.Edge
	index map[common.Edge]struct{}
}

func NewEdgeStore() *EdgeStore {
	return &EdgeStore{
		index: make(map[common.Edge]struct{}),
	}
}

// AddEdge inserts the triple unless it is incomplete, a self-loop or already
// stored. The relationship is lowercased and trimmed. It reports whether a new
// edge was stored.
func (s *EdgeStore) AddEdge(source, target, relationship string) bool {
	source = strings.TrimSpace(source)
	target = strings.TrimSpace(target)
	relationship = strings.ToLower(strings.TrimSpace(relationship))
	if source == "" || target == "" || relationship == "" || source == target {
		return false
	}

	edge := common.Edge{Source: source, Target: target, Relationship: relationship}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[edge]; ok {
		return false
	}
	s.index[edge] = struct{}{}
	s.edges = append(s.edges, edge)
	return true
}

// Redirect rewrites every edge endpoint equal to oldID to newID. Edges that
// become self-loops or duplicates of an existing triple are dropped.
func (s *EdgeStore) Redirect(oldID, newID string) {
	if oldID == "" || newID == "" || oldID == newID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edges := make([]common.Edge, 0, len(s.edges))
	index := make(map[common.Edge]struct{}, len(s.index))
	for _, edge := range s.edges {
		if edge.Source == oldID {
			edge.Source = newID
		}
		if edge.Target == oldID {
			edge.Target = newID
		}
		if edge.Source == edge.Target {
			continue
		}
		if _, ok := index[edge]; ok {
			continue
		}
		index[edge] = struct{}{}
		edges = append(edges, edge)
	}
	s.edges = edges
	s.index = index
}

type edgePair struct {
	source string
	target string
}

// MergeParallelLabels collapses all edges between the same (source, target)
// pair into one edge whose relationship joins the distinct labels with "|"
// in first-seen order.
func (s *EdgeStore) MergeParallelLabels() {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := make([]edgePair, 0, len(s.edges))
	labels := make(map[edgePair][]string, len(s.edges))
	for _, edge := range s.edges {
		pair := edgePair{source: edge.Source, target: edge.Target}
		existing, ok := labels[pair]
		if !ok {
			order = append(order, pair)
		}
		if !containsLabel(existing, edge.Relationship) {
			labels[pair] = append(existing, edge.Relationship)
		}
	}

	edges := make([]common.Edge, 0, len(order))
	index := make(map[common.Edge]struct{}, len(order))
	for _, pair := range order {
		edge := common.Edge{
			Source:       pair.source,
			Target:       pair.target,
			Relationship: strings.Join(labels[pair], "|"),
		}
		edges = append(edges, edge)
		index[edge] = struct{}{}
	}
	s.edges = edges
	s.index = index
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// Values returns a snapshot of the stored edges.
func (s *EdgeStore) Values() []common.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]common.Edge, len(s.edges))
	copy(edges, s.edges)
	return edges
}

// Touched returns the set of node ids referenced by at least one edge.
func (s *EdgeStore) Touched() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	touched := make(map[string]struct{}, len(s.edges)*2)
	for _, edge := range s.edges {
		touched[edge.Source] = struct{}{}
		touched[edge.Target] = struct{}{}
	}
	return touched
}

// Degrees returns the number of incident edges per node id.
func (s *EdgeStore) Degrees() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	degrees := make(map[string]int, len(s.edges)*2)
	for _, edge := range s.edges {
		degrees[edge.Source]++
		degrees[edge.Target]++
	}
	return degrees
}

func (s *EdgeStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}
