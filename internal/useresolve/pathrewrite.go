package useresolve

import (
	"strings"

	"github.com/archtest-go/conform/internal/domain"
)

// splitAliasFull splits a "<real path> as <alias>" usable-object path (the
// form pathextract's use_as_clause handling emits) into its real path and
// alias. ok is false for a plain, unaliased path.
func splitAliasFull(path string) (real, alias string, ok bool) {
	idx := strings.LastIndex(path, " as ")
	if idx == -1 {
		return path, "", false
	}
	return path[:idx], strings.TrimSpace(path[idx+len(" as "):]), true
}

// rewriteRelative performs spec.md §4.4 step 1: rewriting a self/super/
// crate-relative path into an absolute one by substituting the owner's own
// module path, the owner's parent's path, or the crate root.
func rewriteRelative(tree *domain.ModuleTree, owner int, path string) string {
	first, rest, hasRest := splitFirst(path)
	switch first {
	case "self":
		base := joinChain(tree.AncestorChain(owner))
		if !hasRest {
			return base
		}
		return joinPrefix(base, rest)
	case "super":
		ownerNode := tree.Node(owner)
		if ownerNode.Parent == nil {
			return path // no super at crate root; left unresolved, falls through to external
		}
		base := joinChain(tree.AncestorChain(*ownerNode.Parent))
		if !hasRest {
			return base
		}
		return joinPrefix(base, rest)
	case "crate":
		if !hasRest {
			return ""
		}
		return rest
	default:
		return path
	}
}

// resolvePrefix performs spec.md §4.4 step 3: for each Use/RePublish entry
// visible from owner's scope (itself, then ancestors, in order), substitute
// the entry's locally-visible name for path's leading segment and retry
// the possible_uses lookup.
func resolvePrefix(tree *domain.ModuleTree, owner int, abs string) (domain.UseRelation, bool) {
	first, rest, hasRest := splitFirst(abs)
	for _, scope := range selfThenAncestors(tree, owner) {
		node := tree.Node(scope)
		for _, obj := range node.UsableObjects {
			if obj.Kind != domain.KindUse && obj.Kind != domain.KindRePublish {
				continue
			}
			real, alias, aliased := splitAliasFull(obj.Path)
			local := alias
			if !aliased {
				local = lastSegment(real)
			}
			if local != first || local == "" {
				continue
			}
			candidate := real
			if hasRest {
				candidate = joinPrefix(real, rest)
			}
			if ownerIdx, found, ok := tree.LookupPossibleUse(candidate); ok {
				return domain.UseRelation{UsedObject: found, OwnerNodeIndex: ownerIdx}, true
			}
		}
	}
	return domain.UseRelation{}, false
}

// selfThenAncestors returns owner followed by its ancestors up to the
// crate root, in that order.
func selfThenAncestors(tree *domain.ModuleTree, owner int) []int {
	list := []int{owner}
	node := tree.Node(owner)
	for node.Parent != nil {
		list = append(list, *node.Parent)
		node = tree.Node(*node.Parent)
	}
	return list
}

func isWildcard(path string) bool {
	return path == "*" || strings.HasSuffix(path, "::*")
}

func trimWildcard(path string) string {
	if path == "*" {
		return ""
	}
	return strings.TrimSuffix(path, "::*")
}

func splitFirst(path string) (first, rest string, hasRest bool) {
	idx := strings.Index(path, "::")
	if idx == -1 {
		return path, "", false
	}
	return path[:idx], path[idx+2:], true
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "::")
	if idx == -1 {
		return path
	}
	return path[idx+2:]
}

func joinPrefix(prefix, leaf string) string {
	if prefix == "" {
		return leaf
	}
	return prefix + "::" + leaf
}

func joinChain(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "::"
		}
		out += p
	}
	return out
}
