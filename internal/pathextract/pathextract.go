// Package pathextract lowers a parsed Rust syntax tree to the
// domain.UsableObject entries a module defines or references, following
// spec.md §4.2's kind-by-kind dispatch table over internal/rsyntax's
// closed taxonomy.
package pathextract

import (
	"fmt"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/rsyntax"
)

// Result is what Extract gathers for one module node.
type Result struct {
	ModuleRefs  []domain.ModuleRef
	Diagnostics []string
}

type extractor struct {
	tree   *domain.ModuleTree
	source []byte
	res    Result
}

// Extract walks root's children (a SOURCE_FILE or an inline module's
// ITEM_LIST), appending UsableObject entries to tree.Nodes[ownerIndex] and
// creating a fresh ModuleNode for every inline `mod foo { ... }` it finds.
// Bodiless `mod foo;` items are returned as ModuleRefs for the module-tree
// builder to resolve against the file system.
func Extract(tree *domain.ModuleTree, ownerIndex int, root rsyntax.Node, source []byte) Result {
	ex := &extractor{tree: tree, source: source}
	for _, child := range root.NamedChildren() {
		ex.visit(child, ownerIndex)
	}
	return ex.res
}

func (ex *extractor) push(owner int, obj domain.UsableObject) {
	n := ex.tree.Node(owner)
	n.UsableObjects = append(n.UsableObjects, obj)
}

func (ex *extractor) diag(format string, args ...any) {
	ex.res.Diagnostics = append(ex.res.Diagnostics, fmt.Sprintf(format, args...))
}

// visit is the top-level dispatch, mirroring spec.md §4.2 / the original
// parser's parse_file_rec.
func (ex *extractor) visit(n rsyntax.Node, owner int) {
	if n.IsZero() {
		return
	}
	switch n.Kind() {
	case rsyntax.Use:
		ex.visitUse(n, owner)
	case rsyntax.Struct:
		ex.visitStruct(n, owner)
	case rsyntax.Enum:
		ex.visitEnum(n, owner)
	case rsyntax.Trait:
		ex.visitTrait(n, owner)
	case rsyntax.Fn:
		ex.visitFn(n, owner)
	case rsyntax.Impl:
		ex.visitImpl(n, owner)
	case rsyntax.Module:
		ex.visitModule(n, owner)
	case rsyntax.PathExpr, rsyntax.Path, rsyntax.TupleStructPat:
		ex.flattenPathLike(n, owner, false)
	case rsyntax.ParamList:
		ex.collectFieldList(n, owner, false)
	case rsyntax.TupleType, rsyntax.PathType, rsyntax.TuplePat:
		ex.collectTypeUses(n, owner, false)
	case rsyntax.MatchExpr:
		ex.visitMatch(n, owner)
	case rsyntax.ExternCrate, rsyntax.MacroCall, rsyntax.Attr, rsyntax.Literal,
		rsyntax.IdentPat, rsyntax.BreakExpr, rsyntax.ContinueExpr:
		// known coarse approximations, deliberately skipped (spec.md §4.2, §9)
	default:
		if n.Kind().Recurses() {
			for _, c := range n.Children() {
				ex.visit(c, owner)
			}
			return
		}
		ex.diag("unhandled syntax kind %q (%s) at byte %d", n.Kind(), n.GrammarType(), n.Byte().Start)
	}
}

// visibility scans n's direct children for a visibility_modifier, since
// tree-sitter-rust attaches it as a plain optional child rather than a
// named field.
func visibility(n rsyntax.Node) domain.Visibility {
	for _, c := range n.Children() {
		if c.Kind() == rsyntax.Visibility {
			return domain.Public
		}
	}
	return domain.Private
}

func rangeOf(n rsyntax.Node) domain.TextRange {
	r := n.Byte()
	return domain.TextRange{Start: r.Start, End: r.End}
}

func (ex *extractor) visitUse(n rsyntax.Node, owner int) {
	vis := visibility(n)
	kind := domain.KindUse
	if vis == domain.Public {
		kind = domain.KindRePublish
	}
	arg, ok := n.ChildByFieldName("argument")
	if !ok {
		ex.diag("use declaration with no argument at byte %d", n.Byte().Start)
		return
	}
	for _, path := range collectUsePaths(arg, ex.source, "") {
		ex.push(owner, domain.UsableObject{
			Visibility: vis,
			Kind:       kind,
			Path:       path.text,
			TextRange:  domain.TextRange{Start: path.byteRange.Start, End: path.byteRange.End},
		})
	}
}

func (ex *extractor) visitStruct(n rsyntax.Node, owner int) {
	vis := visibility(n)
	if name, ok := n.ChildByFieldName("name"); ok {
		ex.push(owner, domain.UsableObject{Visibility: vis, Kind: domain.KindStruct, Path: name.Text(ex.source), TextRange: rangeOf(name)})
	}
	if body, ok := n.ChildByFieldName("body"); ok {
		ex.collectFieldList(body, owner, vis == domain.Public)
	}
}

func (ex *extractor) visitEnum(n rsyntax.Node, owner int) {
	vis := visibility(n)
	if name, ok := n.ChildByFieldName("name"); ok {
		ex.push(owner, domain.UsableObject{Visibility: vis, Kind: domain.KindEnum, Path: name.Text(ex.source), TextRange: rangeOf(name)})
	}
	body, ok := n.ChildByFieldName("body")
	if !ok {
		return
	}
	for _, variant := range body.NamedChildren() {
		for _, arg := range variant.NamedChildren() {
			if arg.GrammarType() == "field_declaration_list" || arg.GrammarType() == "ordered_field_declaration_list" {
				ex.collectFieldList(arg, owner, vis == domain.Public)
			}
		}
	}
}

func (ex *extractor) visitTrait(n rsyntax.Node, owner int) {
	vis := visibility(n)
	if name, ok := n.ChildByFieldName("name"); ok {
		ex.push(owner, domain.UsableObject{Visibility: vis, Kind: domain.KindTrait, Path: name.Text(ex.source), TextRange: rangeOf(name)})
	}
	if body, ok := n.ChildByFieldName("body"); ok {
		ex.collectAssocItemList(body, owner)
	}
}

func (ex *extractor) visitFn(n rsyntax.Node, owner int) {
	vis := visibility(n)
	if name, ok := n.ChildByFieldName("name"); ok {
		ex.push(owner, domain.UsableObject{Visibility: vis, Kind: domain.KindFunction, Path: name.Text(ex.source), TextRange: rangeOf(name)})
	}
	if params, ok := n.ChildByFieldName("parameters"); ok {
		ex.collectFieldList(params, owner, false)
	}
	if ret, ok := n.RetType(); ok {
		if inner := ret.Inner(); inner.Kind() == rsyntax.PathType {
			ex.collectTypeUses(inner, owner, false)
		}
	}
	if body, ok := n.ChildByFieldName("body"); ok {
		ex.visit(body, owner)
	}
}

func (ex *extractor) visitImpl(n rsyntax.Node, owner int) {
	if typ, ok := n.ChildByFieldName("type"); ok && typ.Kind() == rsyntax.PathType {
		ex.collectTypeUses(typ, owner, false)
	}
	if tr, ok := n.ChildByFieldName("trait"); ok && tr.Kind() == rsyntax.PathType {
		ex.collectTypeUses(tr, owner, false)
	}
	if body, ok := n.ChildByFieldName("body"); ok {
		ex.collectAssocItemList(body, owner)
	}
}

func (ex *extractor) visitModule(n rsyntax.Node, owner int) {
	name, ok := n.ChildByFieldName("name")
	if !ok {
		ex.diag("mod item with no name at byte %d", n.Byte().Start)
		return
	}
	body, hasBody := n.ChildByFieldName("body")
	if !hasBody {
		ex.res.ModuleRefs = append(ex.res.ModuleRefs, domain.ModuleRef{ParentIndex: owner, Name: name.Text(ex.source)})
		return
	}
	parentNode := ex.tree.Node(owner)
	child := domain.ModuleNode{
		Index:      ex.tree.Len(),
		FilePath:   parentNode.FilePath,
		Level:      parentNode.Level + 1,
		Parent:     intPtr(owner),
		ModuleName: name.Text(ex.source),
	}
	childIndex := child.Index
	ex.tree.Nodes = append(ex.tree.Nodes, child)
	parentNode = ex.tree.Node(owner)
	parentNode.Children = append(parentNode.Children, childIndex)
	for _, item := range body.NamedChildren() {
		ex.visit(item, childIndex)
	}
}

func (ex *extractor) visitMatch(n rsyntax.Node, owner int) {
	body, ok := n.ChildByFieldName("body")
	if !ok {
		return
	}
	for _, arm := range body.NamedChildren() {
		if arm.Kind() != rsyntax.MatchArm {
			continue
		}
		if value, ok := arm.ChildByFieldName("value"); ok {
			ex.visit(value, owner)
		}
	}
}

func intPtr(v int) *int { return &v }
