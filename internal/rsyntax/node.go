package rsyntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Point is a zero-based line/column pair, used for diagnostics.
type Point struct {
	Row    int
	Column int
}

// Range is a byte span into the original source.
type Range struct {
	Start int
	End   int
}

// Node wraps a tree-sitter node behind the closed Kind taxonomy. Callers
// never see a *sitter.Node.
type Node struct {
	n      *sitter.Node
	synth  Kind
	synKid *sitter.Node // for a synthetic RetType node, the wrapped return-type child
}

// Kind returns the node's syntax kind, collapsing grammar-specific node
// types onto the taxonomy in kind.go.
func (nd Node) Kind() Kind {
	if nd.n == nil {
		return Unknown
	}
	if nd.synth != Unknown {
		return nd.synth
	}
	if nd.n.IsError() {
		return Error
	}
	return kindOf(nd.n.Type())
}

// IsZero reports whether nd wraps no node.
func (nd Node) IsZero() bool { return nd.n == nil }

// Children returns nd's direct children. A synthetic RetType node has a
// single synthetic child wrapping the return-type node tree-sitter-rust
// attaches as a plain field rather than a child of its own kind; a
// synthetic TypeArg node wraps one positional child of a type_arguments
// node in the same way.
func (nd Node) Children() []Node {
	if nd.n == nil {
		return nil
	}
	if nd.synKid != nil {
		return []Node{{n: nd.synKid}}
	}
	count := int(nd.n.ChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		c := nd.n.Child(i)
		if c == nil {
			continue
		}
		out = append(out, Node{n: c})
	}
	return out
}

// NamedChildren returns nd's named children only, skipping anonymous
// tokens such as punctuation and keywords.
func (nd Node) NamedChildren() []Node {
	if nd.n == nil {
		return nil
	}
	count := int(nd.n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		c := nd.n.NamedChild(i)
		if c == nil {
			continue
		}
		out = append(out, Node{n: c})
	}
	return out
}

// ChildByFieldName returns the child stored under the grammar field name,
// such as "name", "body", "value" or "pattern".
func (nd Node) ChildByFieldName(name string) (Node, bool) {
	if nd.n == nil {
		return Node{}, false
	}
	c := nd.n.ChildByFieldName(name)
	if c == nil {
		return Node{}, false
	}
	return Node{n: c}, true
}

// RetType synthesizes the RetType kind for a FN node's return_type field,
// which tree-sitter-rust exposes as a plain field rather than a wrapper
// node of its own kind. It reports ok=false when the function has no
// return type, i.e. it implicitly returns unit.
func (nd Node) RetType() (Node, bool) {
	if nd.n == nil {
		return Node{}, false
	}
	c := nd.n.ChildByFieldName("return_type")
	if c == nil {
		return Node{}, false
	}
	return Node{n: c, synth: RetType, synKid: c}, true
}

// TypeArgs synthesizes a TypeArg-kinded node for each positional child of
// a GENERIC_ARG_LIST, since tree-sitter-rust's type_arguments node holds
// its arguments as unnamed positional children rather than wrapping each
// in a node of its own kind.
func (nd Node) TypeArgs() []Node {
	if nd.n == nil || nd.Kind() != GenericArgList {
		return nil
	}
	var out []Node
	for _, c := range nd.NamedChildren() {
		out = append(out, Node{n: c.n, synth: TypeArg, synKid: c.n})
	}
	return out
}

// Inner returns nd with any synthetic Kind override stripped, exposing the
// grammar's own kind for the same underlying node. Used after TypeArgs or
// RetType to inspect what the synthesized wrapper actually contains.
func (nd Node) Inner() Node {
	if nd.synKid != nil {
		return Node{n: nd.synKid}
	}
	return nd
}

// Text returns the slice of source covered by nd.
func (nd Node) Text(source []byte) string {
	if nd.n == nil {
		return ""
	}
	start, end := nd.n.StartByte(), nd.n.EndByte()
	if int(end) > len(source) {
		end = uint32(len(source))
	}
	if start > end {
		return ""
	}
	return string(source[start:end])
}

// Byte returns the byte span covered by nd.
func (nd Node) Byte() Range {
	if nd.n == nil {
		return Range{}
	}
	return Range{Start: int(nd.n.StartByte()), End: int(nd.n.EndByte())}
}

// StartPoint returns nd's starting line/column, used for diagnostics.
func (nd Node) StartPoint() Point {
	if nd.n == nil {
		return Point{}
	}
	p := nd.n.StartPoint()
	return Point{Row: int(p.Row), Column: int(p.Column)}
}

// EndPoint returns nd's ending line/column.
func (nd Node) EndPoint() Point {
	if nd.n == nil {
		return Point{}
	}
	p := nd.n.EndPoint()
	return Point{Row: int(p.Row), Column: int(p.Column)}
}

// HasError reports whether nd or any descendant failed to parse.
func (nd Node) HasError() bool {
	return nd.n != nil && nd.n.HasError()
}

// GrammarType exposes the raw tree-sitter node type for diagnostics when
// Kind() is Unknown; it is never used for dispatch.
func (nd Node) GrammarType() string {
	if nd.n == nil {
		return ""
	}
	return nd.n.Type()
}
