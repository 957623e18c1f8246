package graph

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/lexicon"
)

const numberType = "NUMBER"

var yearPattern = regexp.MustCompile(`^\d{4}$`)

type registryEntry struct {
	node common.Node
	docs map[string]struct{}
	seq  uint64
}

// Rename records that node From was absorbed into node To.
type Rename struct {
	From string
	To   string
}

// NodeRegistry is the canonical store of nodes for one graph run.
// Every mutation happens under a single lock so that the read-modify-write
// of an upsert (frequency, type promotion, name choice) is atomic per key.
type NodeRegistry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	seq     uint64
	renames []Rename

	lexicon          *lexicon.Lexicon
	containment      bool
	minContainLength int
}

// NodeRegistryParams configures a NodeRegistry.
//
// ContainmentMerge routes an upsert to the longer id of a substring pair:
// a candidate contained in a stored id updates that node, a candidate that
// contains stored ids absorbs them into a node under the candidate id.
// MinContainmentLength is the shortest id, in runes, that takes part in a
// containment match.
type NodeRegistryParams struct {
	Lexicon              *lexicon.Lexicon
	ContainmentMerge     bool
	MinContainmentLength int
}

func NewNodeRegistry(params NodeRegistryParams) *NodeRegistry {
	lex := params.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	return &NodeRegistry{
		entries:          make(map[string]*registryEntry),
		lexicon:          lex,
		containment:      params.ContainmentMerge,
		minContainLength: params.MinContainmentLength,
	}
}

// Upsert records one observation of an entity and returns the id of the node
// that absorbed it. It returns "" when the observation is rejected: blank id,
// stopword, or a NUMBER that is not a four digit year.
func (r *NodeRegistry) Upsert(id, name, nodeType, documentID string) string {
	id = Normalize(id)
	if id == "" || r.lexicon.IsStopword(id) {
		return ""
	}
	if nodeType == numberType && !yearPattern.MatchString(id) {
		return ""
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = id
	}
	if nodeType == "" {
		nodeType = common.ConceptType
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	target := id
	if r.containment {
		target = r.containingID(id)
	}

	entry, ok := r.entries[target]
	if !ok {
		r.seq++
		entry = &registryEntry{
			node: common.Node{
				ID:        target,
				Name:      name,
				Type:      nodeType,
				Frequency: 1,
			},
			docs: make(map[string]struct{}),
			seq:  r.seq,
		}
		if documentID != "" {
			entry.docs[documentID] = struct{}{}
		}
		r.entries[target] = entry
		if r.containment {
			r.absorbContained(entry)
		}
		return target
	}

	entry.node.Frequency++
	if documentID != "" {
		entry.docs[documentID] = struct{}{}
	}
	entry.node.Type = promoteType(entry.node.Type, nodeType)
	// a contained candidate only counts as an observation of its container
	if target == id && (utf8.RuneCountInString(name) > utf8.RuneCountInString(entry.node.Name) || entry.node.Name == entry.node.ID) {
		entry.node.Name = name
	}

	return target
}

// Resolve returns the id of the stored node an upsert of id would update,
// following containment when it is enabled.
func (r *NodeRegistry) Resolve(id string) (string, bool) {
	id = Normalize(id)
	if id == "" {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	target := id
	if r.containment {
		target = r.containingID(id)
	}
	if _, ok := r.entries[target]; !ok {
		return "", false
	}
	return target, true
}

// containingID resolves the canonical parent of a candidate id: the longest
// stored id that contains it, or the candidate itself when it is the longer
// side of every containment relation. Ties go to the earliest stored node.
// Must be called with r.mu held for reading.
func (r *NodeRegistry) containingID(id string) string {
	idLen := utf8.RuneCountInString(id)
	if idLen < r.minContainLength {
		return id
	}

	best := id
	bestLen := idLen
	var bestSeq uint64
	for existing, entry := range r.entries {
		existingLen := utf8.RuneCountInString(existing)
		if existingLen <= idLen || !strings.Contains(existing, id) {
			continue
		}
		if existingLen > bestLen || (existingLen == bestLen && entry.seq < bestSeq) {
			best = existing
			bestLen = existingLen
			bestSeq = entry.seq
		}
	}
	return best
}

// absorbContained folds every stored node whose id is contained in the new
// entry's id into it. Must be called with r.mu held.
func (r *NodeRegistry) absorbContained(parent *registryEntry) {
	parentLen := utf8.RuneCountInString(parent.node.ID)
	absorbed := make([]*registryEntry, 0)
	for existing, entry := range r.entries {
		if existing == parent.node.ID {
			continue
		}
		existingLen := utf8.RuneCountInString(existing)
		if existingLen < r.minContainLength || existingLen >= parentLen {
			continue
		}
		if strings.Contains(parent.node.ID, existing) {
			absorbed = append(absorbed, entry)
		}
	}
	sort.Slice(absorbed, func(i, j int) bool {
		return absorbed[i].seq < absorbed[j].seq
	})

	for _, entry := range absorbed {
		parent.node.Frequency += entry.node.Frequency
		for doc := range entry.docs {
			parent.docs[doc] = struct{}{}
		}
		parent.node.Type = promoteType(parent.node.Type, entry.node.Type)
		if entry.seq < parent.seq {
			parent.seq = entry.seq
		}
		delete(r.entries, entry.node.ID)
		r.renames = append(r.renames, Rename{From: entry.node.ID, To: parent.node.ID})
	}
}

// TakeRenames returns and clears the absorptions recorded since the last
// call. Callers rewrite edges of the absorbed ids to the new ones.
func (r *NodeRegistry) TakeRenames() []Rename {
	r.mu.Lock()
	defer r.mu.Unlock()

	renames := r.renames
	r.renames = nil
	return renames
}

// promoteType applies first-specific-tag-wins: Concept yields to any specific
// tag, a specific tag is never replaced.
func promoteType(current, observed string) string {
	if current == common.ConceptType && observed != "" && observed != common.ConceptType {
		return observed
	}
	return current
}

func (r *NodeRegistry) Get(id string) (common.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return common.Node{}, false
	}
	return entry.snapshot(), true
}

func (r *NodeRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Merge folds the node `from` into `into`: frequencies are summed, document
// ids united and the type promoted. The `from` node is removed. It reports
// false when either node is missing or both ids are equal.
func (r *NodeRegistry) Merge(into, from string) bool {
	if into == from {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	survivor, ok := r.entries[into]
	if !ok {
		return false
	}
	absorbed, ok := r.entries[from]
	if !ok {
		return false
	}

	survivor.node.Frequency += absorbed.node.Frequency
	for doc := range absorbed.docs {
		survivor.docs[doc] = struct{}{}
	}
	survivor.node.Type = promoteType(survivor.node.Type, absorbed.node.Type)
	delete(r.entries, from)

	return true
}

// SetImportance stores the importance score of a node.
func (r *NodeRegistry) SetImportance(id string, importance float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[id]; ok {
		entry.node.Importance = importance
	}
}

// Values returns a snapshot of all nodes in insertion order.
func (r *NodeRegistry) Values() []common.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*registryEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	nodes := make([]common.Node, 0, len(entries))
	for _, entry := range entries {
		nodes = append(nodes, entry.snapshot())
	}
	return nodes
}

func (r *NodeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (e *registryEntry) snapshot() common.Node {
	node := e.node
	node.DocumentIDs = make([]string, 0, len(e.docs))
	for doc := range e.docs {
		node.DocumentIDs = append(node.DocumentIDs, doc)
	}
	slices.Sort(node.DocumentIDs)
	return node
}
