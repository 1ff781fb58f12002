// Package cycle detects cyclic use-dependencies in a domain.ModuleTree,
// both per node and aggregated per tree level, grounded on
// arch_test_core's contains_cyclic_dependency family.
package cycle

import (
	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/useresolve"
)

// FindCycle performs a per-node depth-first search: for each node, each of
// its outgoing use relations (self-edges excluded) is tried in turn as a
// starting edge until one traversal re-enters an already-visited node.
// Implicit uses are included so a cycle expressed purely through typed
// signatures (a function returning a type from a module that in turn
// references the first) is still detected.
func FindCycle(tree *domain.ModuleTree) []domain.Witness {
	for i := 0; i < tree.Len(); i++ {
		for _, rel := range outgoing(tree, i) {
			visited := []domain.Witness{{NodeIndex: i, Relation: rel}}
			if findTraverse(tree, &visited, rel.OwnerNodeIndex) {
				return truncateCycle(visited)
			}
		}
	}
	return nil
}

// findTraverse recurses along outgoing relations from current, pushing each
// edge taken onto visited and popping it again on backtrack. It reports
// true the moment current re-enters a node already recorded as the origin
// of some earlier edge in visited.
func findTraverse(tree *domain.ModuleTree, visited *[]domain.Witness, current int) bool {
	for _, w := range *visited {
		if w.NodeIndex == current {
			return true
		}
	}
	for _, rel := range outgoing(tree, current) {
		*visited = append(*visited, domain.Witness{NodeIndex: current, Relation: rel})
		if findTraverse(tree, visited, rel.OwnerNodeIndex) {
			return true
		}
		*visited = (*visited)[:len(*visited)-1]
	}
	return false
}

// outgoing returns node's use relations, implicit uses included, with
// self-targeting edges dropped so a node never trivially cycles against
// itself.
func outgoing(tree *domain.ModuleTree, node int) []domain.UseRelation {
	all := useresolve.ObjectUses(tree, node, true)
	out := all[:0:0]
	for _, rel := range all {
		if rel.OwnerNodeIndex != node {
			out = append(out, rel)
		}
	}
	return out
}

// truncateCycle trims a successful traversal's full witness path down to
// the cycle itself: starting from the closing edge, walk the path backward
// until the node it closes against is reached again as an edge origin.
func truncateCycle(visited []domain.Witness) []domain.Witness {
	last := visited[len(visited)-1]
	result := []domain.Witness{last}
	for i := len(visited) - 2; i >= 0; i-- {
		w := visited[i]
		result = append(result, w)
		if w.NodeIndex == last.Relation.OwnerNodeIndex {
			break
		}
	}
	return result
}

// FindCycleAtLevel collapses every subtree rooted at a level-L node to that
// node's own index, aggregates the use relations of all nodes within each
// such subtree, and runs the same traversal over the resulting level graph.
// Level 0 is the crate root itself.
func FindCycleAtLevel(tree *domain.ModuleTree, level int) []domain.Witness {
	levelNodes := nodesAtLevel(tree, level)
	if len(levelNodes) == 0 {
		return nil
	}

	nodeMapping := make(map[int]int)
	for _, ln := range levelNodes {
		for _, descendant := range tree.IncludedNodes(ln) {
			nodeMapping[descendant] = ln
		}
	}

	relationsByLevelNode := make(map[int][]domain.UseRelation)
	for _, ln := range levelNodes {
		for _, member := range tree.IncludedNodes(ln) {
			for _, rel := range useresolve.ObjectUses(tree, member, true) {
				target, ok := nodeMapping[rel.OwnerNodeIndex]
				if !ok || target == ln {
					continue
				}
				relationsByLevelNode[ln] = append(relationsByLevelNode[ln], domain.UseRelation{
					UsedObject:     rel.UsedObject,
					OwnerNodeIndex: target,
				})
			}
		}
	}

	for _, ln := range levelNodes {
		for _, rel := range relationsByLevelNode[ln] {
			visited := []domain.Witness{{NodeIndex: ln, Relation: rel}}
			if findTraverseOnLevel(relationsByLevelNode, &visited, rel.OwnerNodeIndex) {
				return truncateCycle(visited)
			}
		}
	}
	return nil
}

func findTraverseOnLevel(relations map[int][]domain.UseRelation, visited *[]domain.Witness, current int) bool {
	for _, w := range *visited {
		if w.NodeIndex == current {
			return true
		}
	}
	for _, rel := range relations[current] {
		*visited = append(*visited, domain.Witness{NodeIndex: current, Relation: rel})
		if findTraverseOnLevel(relations, visited, rel.OwnerNodeIndex) {
			return true
		}
		*visited = (*visited)[:len(*visited)-1]
	}
	return false
}

// nodesAtLevel returns the indices of every node at the given tree level,
// in index order.
func nodesAtLevel(tree *domain.ModuleTree, level int) []int {
	var out []int
	for i := 0; i < tree.Len(); i++ {
		if tree.Node(i).Level == level {
			out = append(out, i)
		}
	}
	return out
}

// maxLevel returns the deepest Level value present in the tree.
func maxLevel(tree *domain.ModuleTree) int {
	max := 0
	for i := 0; i < tree.Len(); i++ {
		if l := tree.Node(i).Level; l > max {
			max = l
		}
	}
	return max
}

// FindCycleAtAnyLevel runs FindCycleAtLevel for level 1, 2, ... up to the
// tree's deepest level, returning the first cycle found.
func FindCycleAtAnyLevel(tree *domain.ModuleTree) []domain.Witness {
	top := maxLevel(tree)
	for level := 1; level <= top; level++ {
		if w := FindCycleAtLevel(tree, level); w != nil {
			return w
		}
	}
	return nil
}
