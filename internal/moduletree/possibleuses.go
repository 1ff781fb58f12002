package moduletree

import (
	"strings"

	"github.com/archtest-go/conform/internal/domain"
)

// indexPossibleUses builds the tree's possible_uses index: every
// fully-qualified path derivable from the tree (a node's ancestor-name
// chain joined with each definition/re-export's local name) plus the bare
// local name alone, per spec.md §4.3. Both forms resolve ambiguity by
// preferring the shallowest node, then the lowest index — domain.ModuleTree
// applies that tie-break itself in IndexPossibleUse.
func indexPossibleUses(tree *domain.ModuleTree) {
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		chain := tree.AncestorChain(i)
		for _, obj := range node.UsableObjects {
			if !obj.IsDefinition() {
				continue
			}
			name := localName(obj)
			if name == "" {
				continue
			}
			fq := name
			if len(chain) > 0 {
				fq = strings.Join(chain, "::") + "::" + name
			}
			tree.IndexPossibleUse(fq, i, obj, node.Level)
			tree.IndexPossibleUse(name, i, obj, node.Level)
		}
	}
}

// localName returns the name a definition or re-export exposes within its
// owning module: a plain definition's Path is already bare; a RePublish
// entry's Path is the (possibly aliased) imported path, from which the
// locally-visible name is the alias if present, else the final segment.
func localName(obj domain.UsableObject) string {
	if obj.Kind != domain.KindRePublish {
		return obj.Path
	}
	path := obj.Path
	if idx := strings.LastIndex(path, " as "); idx != -1 {
		return strings.TrimSpace(path[idx+len(" as "):])
	}
	if idx := strings.LastIndex(path, "::"); idx != -1 {
		return path[idx+2:]
	}
	return path
}
