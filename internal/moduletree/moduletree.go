// Package moduletree builds the domain.ModuleTree by walking the file
// system from a crate root, recursively parsing every mod-referenced file,
// per spec.md §4.3.
package moduletree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/pathextract"
	"github.com/archtest-go/conform/internal/rsyntax"
)

// BuildError wraps a fatal file-system error encountered while building
// the tree: a directory-read or file-read failure. Parse errors inside a
// file are never fatal (spec.md §5/§7); only I/O failures are.
type BuildError struct {
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("moduletree: %s: %v", e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Result is the outcome of a successful Build.
type Result struct {
	Tree        *domain.ModuleTree
	Diagnostics []string
	ParseErrors int
}

// Build walks rootFile's crate starting at level 0, resolving every
// `mod foo;` reference against its parent directory's sorted entries, and
// finally populates the tree's possible_uses index.
func Build(ctx context.Context, rootFile string) (*Result, error) {
	tree := domain.NewModuleTree()
	res := &Result{Tree: tree}

	rootName := crateName(rootFile)
	if err := addNode(ctx, tree, res, rootFile, 0, nil, rootName); err != nil {
		return nil, err
	}

	indexPossibleUses(tree)
	return res, nil
}

// addNode appends a ModuleNode for filePath, extracts its syntax tree, and
// recurses into every module reference it collects, per spec.md §4.3 steps
// 1-3.
func addNode(ctx context.Context, tree *domain.ModuleTree, res *Result, filePath string, level int, parent *int, moduleName string) error {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return &BuildError{Path: filePath, Err: err}
	}

	index := tree.Len()
	tree.Nodes = append(tree.Nodes, domain.ModuleNode{
		Index:      index,
		FilePath:   filePath,
		Level:      level,
		Parent:     parent,
		ModuleName: moduleName,
	})
	if parent != nil {
		p := tree.Node(*parent)
		p.Children = append(p.Children, index)
	}

	sTree, err := rsyntax.Parse(ctx, source)
	if err != nil {
		return &BuildError{Path: filePath, Err: err}
	}
	defer sTree.Close()
	res.ParseErrors += rsyntax.ErrorCount(sTree)

	extracted := pathextract.Extract(tree, index, sTree.Root(), source)
	res.Diagnostics = append(res.Diagnostics, extracted.Diagnostics...)

	dir := filepath.Dir(filePath)
	entries, dirErr := sortedDirEntries(dir)
	if dirErr != nil {
		return &BuildError{Path: dir, Err: dirErr}
	}

	for _, ref := range extracted.ModuleRefs {
		childPath, ok := resolveModuleFile(entries, dir, ref.Name)
		if !ok {
			// file-not-found: treated as external, per spec.md §4.3/§7.
			continue
		}
		parentNode := tree.Node(ref.ParentIndex)
		childLevel := parentNode.Level + 1
		parentIdx := ref.ParentIndex
		if err := addNode(ctx, tree, res, childPath, childLevel, &parentIdx, ref.Name); err != nil {
			return err
		}
	}
	return nil
}

// sortedDirEntries reads dir and returns its entries sorted by byte-wise
// name, satisfying spec.md §4.3's determinism requirement.
func sortedDirEntries(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// resolveModuleFile selects `<name>.rs` or `<name>/mod.rs` from dir's
// sorted entries, preferring the directory form when both exist, per
// spec.md §4.3.
func resolveModuleFile(entries []os.DirEntry, dir, name string) (string, bool) {
	fileForm := name + ".rs"
	dirForm := name

	var fileMatch, dirMatch bool
	for _, e := range entries {
		switch {
		case e.IsDir() && e.Name() == dirForm:
			dirMatch = true
		case !e.IsDir() && e.Name() == fileForm:
			fileMatch = true
		}
	}
	switch {
	case dirMatch:
		return filepath.Join(dir, dirForm, "mod.rs"), true
	case fileMatch:
		return filepath.Join(dir, fileForm), true
	default:
		return "", false
	}
}

// crateName derives the root module's name from its file path, the way
// cargo names a crate's root module after its package, approximated here
// as the file's base name without extension.
func crateName(rootFile string) string {
	base := filepath.Base(rootFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
