package graph

import (
	"fmt"
	"math"
	"strings"
)

// ScoringPolicy selects how node importance is derived.
type ScoringPolicy string

const (
	// ScoringLog scores ln(1 + frequency).
	ScoringLog ScoringPolicy = "log"
	// ScoringDegree scores frequency * (1 + degree).
	ScoringDegree ScoringPolicy = "degree"
)

// ParseScoringPolicy accepts "log", "degree" or "" (log).
func ParseScoringPolicy(value string) (ScoringPolicy, error) {
	switch ScoringPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", ScoringLog:
		return ScoringLog, nil
	case ScoringDegree:
		return ScoringDegree, nil
	default:
		return "", fmt.Errorf("unknown scoring policy %q", value)
	}
}

// Importance computes the score of a node from its frequency and degree.
func (p ScoringPolicy) Importance(frequency, degree int) float64 {
	if p == ScoringDegree {
		return float64(frequency) * float64(1+degree)
	}
	return math.Log1p(float64(frequency))
}

// pruneIsolated removes nodes that no edge touches and whose frequency is
// below minFrequency. It returns the number of removed nodes.
func pruneIsolated(nodes *NodeRegistry, edges *EdgeStore, minFrequency int) int {
	touched := edges.Touched()
	removed := 0
	for _, node := range nodes.Values() {
		if _, ok := touched[node.ID]; ok {
			continue
		}
		if node.Frequency < minFrequency {
			nodes.Remove(node.ID)
			removed++
		}
	}
	return removed
}

func scoreNodes(nodes *NodeRegistry, edges *EdgeStore, policy ScoringPolicy) {
	degrees := edges.Degrees()
	for _, node := range nodes.Values() {
		nodes.SetImportance(node.ID, policy.Importance(node.Frequency, degrees[node.ID]))
	}
}
