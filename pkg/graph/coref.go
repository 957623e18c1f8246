package graph

import "github.com/OFFIS-RIT/kgraph/pkg/common"

// mergeCoreferences folds every chain into its first mention. Mentions that
// are not registered nodes are ignored; when the first mention itself is not
// registered, the earliest registered mention survives instead. A mention
// absorbed by containment resolves to the node that holds it, through
// canonical and then the registry. Edges of the absorbed nodes are redirected
// to the survivor. It returns the number of absorbed nodes.
func mergeCoreferences(chains []common.CorefChain, nodes *NodeRegistry, edges *EdgeStore, canonical func(string) string) int {
	merged := 0
	for _, chain := range chains {
		if len(chain.Mentions) < 2 {
			continue
		}

		survivor := ""
		for _, mention := range chain.Mentions {
			id := Normalize(mention.Text)
			if id == "" {
				continue
			}
			if canonical != nil {
				id = canonical(id)
			}
			id, ok := nodes.Resolve(id)
			if !ok {
				continue
			}
			if survivor == "" {
				survivor = id
				continue
			}
			if nodes.Merge(survivor, id) {
				edges.Redirect(id, survivor)
				merged++
			}
		}
	}
	return merged
}
