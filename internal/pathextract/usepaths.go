package pathextract

import "github.com/archtest-go/conform/internal/rsyntax"

// usePath is one flattened leaf of a use declaration's tree of braces.
type usePath struct {
	text      string
	byteRange rsyntax.Range
}

// collectUsePaths flattens tree-sitter-rust's use-clause grammar (identifier
// | scoped_identifier | use_as_clause | use_list | scoped_use_list |
// use_wildcard | crate | self | super) into the flat list of "::"-joined
// leaf paths spec.md §4.2 calls for, mirroring the nested-brace flattening
// of the original's parse_use_tree over rust-analyzer's USE_TREE shape. A
// prefix accumulated from an enclosing scoped_use_list is threaded through
// as prefix.
func collectUsePaths(n rsyntax.Node, source []byte, prefix string) []usePath {
	if n.IsZero() {
		return nil
	}
	switch n.GrammarType() {
	case "use_wildcard":
		base := prefix
		if p, ok := n.ChildByFieldName("path"); ok {
			base = joinPrefix(prefix, p.Text(source))
		}
		return []usePath{{text: joinPrefix(base, "*"), byteRange: n.Byte()}}

	case "use_as_clause":
		// Recorded as "<real path> as <alias>", same shape the source
		// itself uses, so the resolver's alias-substitution step (§4.4)
		// can split on " as " without a dedicated alias field in
		// UsableObject.
		path, ok := n.ChildByFieldName("path")
		if !ok {
			return nil
		}
		alias, ok := n.ChildByFieldName("alias")
		full := joinPrefix(prefix, path.Text(source))
		if ok {
			full = full + " as " + alias.Text(source)
		}
		return []usePath{{text: full, byteRange: n.Byte()}}

	case "use_list":
		var out []usePath
		for _, item := range n.NamedChildren() {
			out = append(out, collectUsePaths(item, source, prefix)...)
		}
		return out

	case "scoped_use_list":
		var base string
		if p, ok := n.ChildByFieldName("path"); ok {
			base = joinPrefix(prefix, p.Text(source))
		} else {
			base = prefix
		}
		list, ok := n.ChildByFieldName("list")
		if !ok {
			return nil
		}
		var out []usePath
		for _, item := range list.NamedChildren() {
			out = append(out, collectUsePaths(item, source, base)...)
		}
		return out

	default:
		// identifier, scoped_identifier, crate, self, super: a leaf path.
		return []usePath{{text: joinPrefix(prefix, n.Text(source)), byteRange: n.Byte()}}
	}
}

func joinPrefix(prefix, leaf string) string {
	if prefix == "" {
		return leaf
	}
	return prefix + "::" + leaf
}
