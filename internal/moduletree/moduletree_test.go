package moduletree_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archtest-go/conform/internal/moduletree"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// TestBuildResolvesFileAndDirectoryModules lays out a crate with a plain
// file module and a directory module (mod.rs), confirming both `mod foo;`
// forms resolve per spec.md §4.3's file-system lookup.
func TestBuildResolvesFileAndDirectoryModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.rs"), `
mod domain;
mod infra;
`)
	writeFile(t, filepath.Join(root, "domain.rs"), `
pub struct Widget;
`)
	writeFile(t, filepath.Join(root, "infra", "mod.rs"), `
pub struct Repo;
`)

	result, err := moduletree.Build(context.Background(), filepath.Join(root, "lib.rs"))
	require.NoError(t, err)
	require.Equal(t, 3, result.Tree.Len())
	assert.Equal(t, 0, result.ParseErrors)

	domainIdx, ok := result.Tree.FindModule("domain")
	require.True(t, ok)
	assert.Equal(t, 1, result.Tree.Node(domainIdx).Level)

	infraIdx, ok := result.Tree.FindModule("infra")
	require.True(t, ok)
	assert.Equal(t, 1, result.Tree.Node(infraIdx).Level)
}

// TestBuildPrefersDirectoryFormOverFileForm confirms resolveModuleFile's
// stated precedence: when both `name.rs` and `name/mod.rs` exist, the
// directory form wins.
func TestBuildPrefersDirectoryFormOverFileForm(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.rs"), `mod shared;`)
	writeFile(t, filepath.Join(root, "shared.rs"), `pub struct FileForm;`)
	writeFile(t, filepath.Join(root, "shared", "mod.rs"), `pub struct DirForm;`)

	result, err := moduletree.Build(context.Background(), filepath.Join(root, "lib.rs"))
	require.NoError(t, err)
	require.Equal(t, 2, result.Tree.Len())
	assert.Equal(t, filepath.Join(root, "shared", "mod.rs"), result.Tree.Node(1).FilePath)
}

// TestBuildTreatsMissingModuleFileAsExternal confirms a `mod foo;` with no
// backing file is not fatal: it is simply not added to the tree.
func TestBuildTreatsMissingModuleFileAsExternal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.rs"), `mod ghost;`)

	result, err := moduletree.Build(context.Background(), filepath.Join(root, "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Tree.Len())
}

// TestBuildReportsFatalIOErrorForUnreadableRoot confirms a missing root
// file is a fatal BuildError, not silently swallowed like a missing
// sub-module.
func TestBuildReportsFatalIOErrorForUnreadableRoot(t *testing.T) {
	_, err := moduletree.Build(context.Background(), filepath.Join(t.TempDir(), "missing.rs"))
	require.Error(t, err)
	var buildErr *moduletree.BuildError
	assert.ErrorAs(t, err, &buildErr)
}

// TestBuildCountsSyntaxErrors confirms malformed source surfaces as a
// ParseErrors count rather than a fatal error.
func TestBuildCountsSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.rs"), `fn broken( {`)

	result, err := moduletree.Build(context.Background(), filepath.Join(root, "lib.rs"))
	require.NoError(t, err)
	assert.Greater(t, result.ParseErrors, 0)
}

// TestBuildIndexesPossibleUsesAcrossModules confirms the possible_uses
// index built from separate files is queryable by fully-qualified path.
func TestBuildIndexesPossibleUsesAcrossModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib.rs"), `mod domain;`)
	writeFile(t, filepath.Join(root, "domain.rs"), `pub struct Widget;`)

	result, err := moduletree.Build(context.Background(), filepath.Join(root, "lib.rs"))
	require.NoError(t, err)

	owner, obj, ok := result.Tree.LookupPossibleUse("domain::Widget")
	require.True(t, ok)
	assert.Equal(t, 1, owner)
	assert.Equal(t, "Widget", obj.Path)
}
