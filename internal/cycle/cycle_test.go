package cycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archtest-go/conform/internal/cycle"
	"github.com/archtest-go/conform/internal/domain"
)

func intPtr(v int) *int { return &v }

// mutualTree builds root(0) -> a(1), root(0) -> b(2), where a implicitly
// references b::Thing (e.g. a function return type) and b implicitly
// references a::Other, forming a 2-cycle through implicit uses only, the
// shape spec.md's scenario S3 describes.
func mutualTree() *domain.ModuleTree {
	tree := domain.NewModuleTree()
	tree.Nodes = append(tree.Nodes,
		domain.ModuleNode{Index: 0, ModuleName: "crate", Level: 0},
		domain.ModuleNode{Index: 1, ModuleName: "a", Level: 1, Parent: intPtr(0)},
		domain.ModuleNode{Index: 2, ModuleName: "b", Level: 1, Parent: intPtr(0)},
	)
	tree.Node(0).Children = []int{1, 2}
	tree.Node(1).UsableObjects = []domain.UsableObject{
		{Kind: domain.KindStruct, Visibility: domain.Public, Path: "Other"},
		{Kind: domain.KindImplicitUse, Path: "b::Thing"},
	}
	tree.Node(2).UsableObjects = []domain.UsableObject{
		{Kind: domain.KindStruct, Visibility: domain.Public, Path: "Thing"},
		{Kind: domain.KindImplicitUse, Path: "a::Other"},
	}
	tree.IndexPossibleUse("a::Other", 1, tree.Node(1).UsableObjects[0], 1)
	tree.IndexPossibleUse("b::Thing", 2, tree.Node(2).UsableObjects[0], 1)
	return tree
}

func TestFindCycleDetectsImplicitTwoCycle(t *testing.T) {
	tree := mutualTree()
	witnesses := cycle.FindCycle(tree)
	require.Len(t, witnesses, 2)

	nodes := map[int]bool{}
	for _, w := range witnesses {
		nodes[w.NodeIndex] = true
	}
	assert.True(t, nodes[1])
	assert.True(t, nodes[2])
}

func TestFindCycleNoCycleInAcyclicChain(t *testing.T) {
	tree := domain.NewModuleTree()
	tree.Nodes = append(tree.Nodes,
		domain.ModuleNode{Index: 0, ModuleName: "crate", Level: 0},
		domain.ModuleNode{Index: 1, ModuleName: "a", Level: 1, Parent: intPtr(0)},
		domain.ModuleNode{Index: 2, ModuleName: "b", Level: 1, Parent: intPtr(0)},
		domain.ModuleNode{Index: 3, ModuleName: "c", Level: 1, Parent: intPtr(0)},
	)
	tree.Node(0).Children = []int{1, 2, 3}
	tree.Node(2).UsableObjects = []domain.UsableObject{{Kind: domain.KindStruct, Visibility: domain.Public, Path: "B"}}
	tree.Node(3).UsableObjects = []domain.UsableObject{{Kind: domain.KindStruct, Visibility: domain.Public, Path: "C"}}
	tree.Node(1).UsableObjects = []domain.UsableObject{{Kind: domain.KindImplicitUse, Path: "b::B"}}
	tree.Node(2).UsableObjects = append(tree.Node(2).UsableObjects, domain.UsableObject{Kind: domain.KindImplicitUse, Path: "c::C"})
	tree.IndexPossibleUse("b::B", 2, tree.Node(2).UsableObjects[0], 1)
	tree.IndexPossibleUse("c::C", 3, tree.Node(3).UsableObjects[0], 1)

	assert.Nil(t, cycle.FindCycle(tree))
}

func TestFindCycleIgnoresSelfReference(t *testing.T) {
	tree := domain.NewModuleTree()
	tree.Nodes = append(tree.Nodes,
		domain.ModuleNode{Index: 0, ModuleName: "crate", Level: 0},
		domain.ModuleNode{Index: 1, ModuleName: "a", Level: 1, Parent: intPtr(0)},
	)
	tree.Node(0).Children = []int{1}
	tree.Node(1).UsableObjects = []domain.UsableObject{
		{Kind: domain.KindStruct, Visibility: domain.Public, Path: "Thing"},
		{Kind: domain.KindImplicitUse, Path: "a::Thing"},
	}
	tree.IndexPossibleUse("a::Thing", 1, tree.Node(1).UsableObjects[0], 1)

	assert.Nil(t, cycle.FindCycle(tree))
}

func TestFindCycleAtLevelAndAnyLevel(t *testing.T) {
	tree := mutualTree()

	assert.Nil(t, cycle.FindCycleAtLevel(tree, 0), "the root is alone at level 0 and has no outgoing edges")
	require.Len(t, cycle.FindCycleAtLevel(tree, 1), 2)

	witnesses := cycle.FindCycleAtAnyLevel(tree)
	require.Len(t, witnesses, 2)
}
