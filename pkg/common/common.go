package common

// Document is a single input text for a graph run. ID identifies the
// document in node provenance; Language is an optional ISO-639-1 hint
// passed to the annotation service.
type Document struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Node represents a canonical entity in the graph. The ID is the normalized
// key of the entity and never changes once assigned. Name holds the most
// descriptive surface form seen so far.
//
// Type is either a named-entity tag (PERSON, LOCATION, ...) or "Concept".
// A Concept node is promoted by the first specific tag observed for it.
type Node struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Frequency   int      `json:"frequency"`
	Importance  float64  `json:"importance"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}

// Edge represents a directed, labeled relation between two nodes.
// The full (Source, Target, Relationship) triple is the identity of an edge.
type Edge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// GraphResult is the snapshot produced at the end of a graph run.
type GraphResult struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Unit represents a contiguous, sentence-aligned chunk of a document.
// Start and End are sentence indices, End exclusive.
type Unit struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

const (
	// ConceptType is the type of nodes without a named-entity tag.
	ConceptType = "Concept"
	// OutsideTag marks tokens outside any named entity.
	OutsideTag = "O"
)
