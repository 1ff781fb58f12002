package rsyntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Tree is a parsed source file. It owns the underlying tree-sitter tree;
// callers must call Close when done with it.
type Tree struct {
	source []byte
	raw    *sitter.Tree
}

// Root returns the SOURCE_FILE node.
func (t *Tree) Root() Node {
	if t == nil || t.raw == nil {
		return Node{}
	}
	return Node{n: t.raw.RootNode()}
}

// Close releases the underlying tree-sitter tree. Callers should defer it
// immediately after a successful Parse.
func (t *Tree) Close() {
	if t != nil && t.raw != nil {
		t.raw.Close()
	}
}

// Parse parses a Rust source file into a Tree. Parse errors inside the
// source do not fail the call; they surface as ERROR-kind nodes in the
// tree, counted by ErrorCount.
func Parse(ctx context.Context, source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	raw, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("rsyntax: parse: %w", err)
	}
	if raw == nil || raw.RootNode() == nil {
		return nil, fmt.Errorf("rsyntax: parse produced no tree")
	}
	return &Tree{source: source, raw: raw}, nil
}

// ErrorCount walks tree and counts ERROR-kind nodes, feeding the
// diagnostics surfaced alongside a module tree build.
func ErrorCount(tree *Tree) int {
	if tree == nil {
		return 0
	}
	count := 0
	var walk func(Node)
	walk = func(n Node) {
		if n.Kind() == Error {
			count++
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(tree.Root())
	return count
}
