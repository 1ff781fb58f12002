// Package useresolve maps the raw use paths and implicit-use references the
// path extractor harvests onto concrete nodes in a domain.ModuleTree,
// implementing spec.md §4.4's five-step resolution order.
package useresolve

import "github.com/archtest-go/conform/internal/domain"

// Resolve resolves a single (owner, usable object) of kind Use, RePublish
// or ImplicitUse to a UseRelation, or reports ok=false when the path is
// external. A resolved wildcard relation carries the target module's index
// with a zero UsedObject; ObjectUses expands it into one relation per
// public object of that module.
func Resolve(tree *domain.ModuleTree, owner int, obj domain.UsableObject) (domain.UseRelation, bool) {
	path := obj.Path
	if real, _, ok := splitAliasFull(path); ok {
		path = real
	}

	abs := rewriteRelative(tree, owner, path)

	if isWildcard(abs) {
		modPath := trimWildcard(abs)
		idx, ok := tree.FindModule(modPath)
		if !ok {
			return domain.UseRelation{}, false
		}
		return domain.UseRelation{OwnerNodeIndex: idx}, true
	}

	if ownerIdx, found, ok := tree.LookupPossibleUse(abs); ok {
		return domain.UseRelation{UsedObject: found, OwnerNodeIndex: ownerIdx}, true
	}

	if rel, ok := resolvePrefix(tree, owner, abs); ok {
		return rel, true
	}

	return domain.UseRelation{}, false
}

// ObjectUses returns the UseRelations for every usable object owned by
// node. includeImplicit selects whether ImplicitUse entries are included
// alongside explicit Use/RePublish entries.
func ObjectUses(tree *domain.ModuleTree, node int, includeImplicit bool) []domain.UseRelation {
	var out []domain.UseRelation
	n := tree.Node(node)
	for _, obj := range n.UsableObjects {
		switch obj.Kind {
		case domain.KindUse, domain.KindRePublish:
		case domain.KindImplicitUse:
			if !includeImplicit {
				continue
			}
		default:
			continue
		}
		rel, ok := Resolve(tree, node, obj)
		if !ok {
			continue
		}
		out = append(out, expandWildcard(tree, rel, obj)...)
	}
	return out
}

// expandWildcard turns a resolved wildcard relation into one relation per
// public definition/re-export of the target module, per spec.md §4.4 step
// 4. A non-wildcard relation passes through unchanged.
func expandWildcard(tree *domain.ModuleTree, rel domain.UseRelation, obj domain.UsableObject) []domain.UseRelation {
	path := obj.Path
	if real, _, ok := splitAliasFull(path); ok {
		path = real
	}
	if !isWildcard(path) {
		return []domain.UseRelation{rel}
	}
	target := tree.Node(rel.OwnerNodeIndex)
	var out []domain.UseRelation
	for _, o := range target.UsableObjects {
		if o.IsDefinition() && o.Visibility == domain.Public {
			out = append(out, domain.UseRelation{UsedObject: o, OwnerNodeIndex: rel.OwnerNodeIndex})
		}
	}
	return out
}
