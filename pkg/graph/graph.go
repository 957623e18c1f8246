package graph

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNoDocuments is returned by ValidateDocuments when no document carries
// text.
var ErrNoDocuments = errors.New("graph: no documents")

// ValidateDocuments reports ErrNoDocuments when docs holds no document with
// non-blank text.
func ValidateDocuments(docs []common.Document) error {
	for _, doc := range docs {
		if strings.TrimSpace(doc.Text) != "" {
			return nil
		}
	}
	return ErrNoDocuments
}

// graphRun holds the state of one BuildGraph call. It is created empty and
// discarded once the result is produced.
type graphRun struct {
	nodes     *NodeRegistry
	edges     *EdgeStore
	extractor *extractor
	corefs    []common.CorefChain
}

func (g *GraphClient) newRun() *graphRun {
	nodes := NewNodeRegistry(NodeRegistryParams{
		Lexicon:              g.lexicon,
		ContainmentMerge:     g.containmentMerge,
		MinContainmentLength: g.minContainmentLength,
	})
	edges := NewEdgeStore()
	return &graphRun{
		nodes:     nodes,
		edges:     edges,
		extractor: newExtractor(nodes, edges, g.lexicon, g.adjectiveAliases),
	}
}

// BuildGraph extracts a knowledge graph from docs.
//
// Every call starts from an empty graph and calls on the same client are
// serialized. Blank documents are skipped and chunks whose annotation fails
// are logged and skipped. When ctx is canceled no result is returned.
func (g *GraphClient) BuildGraph(ctx context.Context, docs []common.Document) (*common.GraphResult, error) {
	g.runMu.Lock()
	defer g.runMu.Unlock()

	start := time.Now()
	logger.Info("[Graph] Processing", "documents", len(docs))

	r := g.newRun()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(doc.Text) == "" {
			logger.Warn("[Graph] Skipping blank document", "document_id", doc.ID)
			continue
		}
		if doc.ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return nil, err
			}
			doc.ID = id
		}
		if err := g.processDocument(ctx, r, doc); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := mergeCoreferences(r.corefs, r.nodes, r.edges, r.extractor.canonical)
	pruned := pruneIsolated(r.nodes, r.edges, g.minIsolatedFrequency)
	r.edges.MergeParallelLabels()
	scoreNodes(r.nodes, r.edges, g.scoring)

	result := &common.GraphResult{
		Nodes: r.nodes.Values(),
		Edges: r.edges.Values(),
	}

	logger.Info("[Graph] Graph build completed",
		"nodes", len(result.Nodes),
		"edges", len(result.Edges),
		"coref_merged", merged,
		"pruned", pruned,
		"duration", time.Since(start),
	)

	return result, nil
}
