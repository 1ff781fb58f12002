package pathextract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/pathextract"
	"github.com/archtest-go/conform/internal/rsyntax"
)

func extract(t *testing.T, source string) (*domain.ModuleTree, pathextract.Result) {
	t.Helper()
	tree := domain.NewModuleTree()
	tree.Nodes = append(tree.Nodes, domain.ModuleNode{Index: 0})

	sTree, err := rsyntax.Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	t.Cleanup(sTree.Close)

	res := pathextract.Extract(tree, 0, sTree.Root(), []byte(source))
	return tree, res
}

func findKind(objs []domain.UsableObject, kind domain.ObjectKind) []domain.UsableObject {
	var out []domain.UsableObject
	for _, o := range objs {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func TestExtractStructDefinition(t *testing.T) {
	tree, _ := extract(t, `pub struct Widget { field: Gadget }`)
	structs := findKind(tree.Node(0).UsableObjects, domain.KindStruct)
	require.Len(t, structs, 1)
	assert.Equal(t, "Widget", structs[0].Path)
	assert.Equal(t, domain.Public, structs[0].Visibility)

	implicit := findKind(tree.Node(0).UsableObjects, domain.KindImplicitUse)
	require.Len(t, implicit, 1)
	assert.Equal(t, "Gadget", implicit[0].Path)
}

func TestExtractUseDeclarationSplitsUseList(t *testing.T) {
	tree, _ := extract(t, `use crate::infra::{Thing, Other};`)
	uses := findKind(tree.Node(0).UsableObjects, domain.KindUse)
	require.Len(t, uses, 2)
	var paths []string
	for _, u := range uses {
		paths = append(paths, u.Path)
	}
	assert.ElementsMatch(t, []string{"crate::infra::Thing", "crate::infra::Other"}, paths)
}

func TestExtractPublicUseIsRePublish(t *testing.T) {
	tree, _ := extract(t, `pub use crate::infra::Thing;`)
	republish := findKind(tree.Node(0).UsableObjects, domain.KindRePublish)
	require.Len(t, republish, 1)
	assert.Equal(t, "crate::infra::Thing", republish[0].Path)
}

func TestExtractFunctionReturnTypeIsImplicitUse(t *testing.T) {
	tree, _ := extract(t, `fn make() -> crate::infra::Thing { panic!() }`)
	fns := findKind(tree.Node(0).UsableObjects, domain.KindFunction)
	require.Len(t, fns, 1)
	assert.Equal(t, "make", fns[0].Path)

	implicit := findKind(tree.Node(0).UsableObjects, domain.KindImplicitUse)
	require.Len(t, implicit, 1)
	assert.Equal(t, "crate::infra::Thing", implicit[0].Path)
}

func TestExtractInlineModuleCreatesChildNode(t *testing.T) {
	tree, _ := extract(t, `
mod domain {
    pub struct Widget;
}
`)
	require.Equal(t, 2, tree.Len())
	assert.Equal(t, "domain", tree.Node(1).ModuleName)
	assert.Equal(t, 0, *tree.Node(1).Parent)

	structs := findKind(tree.Node(1).UsableObjects, domain.KindStruct)
	require.Len(t, structs, 1)
	assert.Equal(t, "Widget", structs[0].Path)
}

func TestExtractBodilessModuleIsAModuleRef(t *testing.T) {
	_, res := extract(t, `mod domain;`)
	require.Len(t, res.ModuleRefs, 1)
	assert.Equal(t, "domain", res.ModuleRefs[0].Name)
	assert.Equal(t, 0, res.ModuleRefs[0].ParentIndex)
}

func TestExtractGenericArgumentsContributeImplicitUses(t *testing.T) {
	tree, _ := extract(t, `struct Holder { items: Vec<crate::infra::Thing> }`)
	implicit := findKind(tree.Node(0).UsableObjects, domain.KindImplicitUse)
	var paths []string
	for _, o := range implicit {
		paths = append(paths, o.Path)
	}
	assert.Contains(t, paths, "Vec")
	assert.Contains(t, paths, "crate::infra::Thing")
}
