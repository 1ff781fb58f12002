package pathextract

import (
	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/rsyntax"
)

// collectFieldList walks a RECORD_FIELD_LIST, TUPLE_FIELD_LIST or PARAM_LIST
// and emits an ImplicitUse for every member's type, per spec.md §4.2's
// parse_field_list.
func (ex *extractor) collectFieldList(n rsyntax.Node, owner int, isPub bool) {
	switch n.GrammarType() {
	case "field_declaration_list":
		for _, field := range n.NamedChildren() {
			if field.GrammarType() != "field_declaration" {
				continue
			}
			if typ, ok := field.ChildByFieldName("type"); ok {
				ex.collectTypeUses(typ, owner, isPub)
			}
		}
	case "ordered_field_declaration_list":
		for _, field := range n.NamedChildren() {
			if field.Kind() == rsyntax.Visibility {
				continue
			}
			ex.collectTypeUses(field, owner, isPub)
		}
	case "parameters":
		for _, param := range n.NamedChildren() {
			if param.GrammarType() == "self_parameter" {
				if typ, ok := param.ChildByFieldName("type"); ok {
					ex.collectTypeUses(typ, owner, isPub)
				}
				continue
			}
			if typ, ok := param.ChildByFieldName("type"); ok {
				ex.collectTypeUses(typ, owner, isPub)
			}
		}
	default:
		ex.diag("unrecognized field list shape %q", n.GrammarType())
	}
}

// collectAssocItemList walks a trait or impl body (declaration_list),
// emitting implicit uses for each function-like item's parameters and
// return type, per spec.md §4.2's parse_assoc_func_item_list. It does not
// emit a Function definition: associated items are references, not
// top-level definitions, in this model.
func (ex *extractor) collectAssocItemList(n rsyntax.Node, owner int) {
	for _, item := range n.NamedChildren() {
		if item.Kind() != rsyntax.Fn {
			continue
		}
		if params, ok := item.ChildByFieldName("parameters"); ok {
			ex.collectFieldList(params, owner, false)
		}
		if ret, ok := item.RetType(); ok {
			if inner := ret.Inner(); inner.Kind() == rsyntax.PathType {
				ex.collectTypeUses(inner, owner, false)
			}
		}
	}
}

// collectTypeUses walks a type-shaped node (TUPLE_TYPE, SLICE_TYPE,
// PAREN_TYPE, REF_TYPE, TUPLE_PAT, IMPL_TRAIT_TYPE, TYPE_BOUND_LIST,
// TYPE_BOUND, or PATH_TYPE) and emits ImplicitUse entries for every
// qualified type path found, per spec.md §4.2's parse_nested_tuple_type.
func (ex *extractor) collectTypeUses(n rsyntax.Node, owner int, isPub bool) {
	if n.IsZero() {
		return
	}
	switch n.Kind() {
	case rsyntax.PathType:
		ex.flattenPathLike(n, owner, isPub)
	case rsyntax.TupleType, rsyntax.SliceType, rsyntax.ParenType, rsyntax.RefType,
		rsyntax.TuplePat, rsyntax.ImplTraitType, rsyntax.TypeBoundList, rsyntax.TypeBound:
		for _, c := range n.NamedChildren() {
			ex.collectTypeUses(c, owner, isPub)
		}
	case rsyntax.Lifetime, rsyntax.Visibility, rsyntax.Attr, rsyntax.IdentPat:
		return
	default:
		ex.diag("unexpected node in type position: %q (%s)", n.Kind(), n.GrammarType())
	}
}

// flattenPathLike emits one ImplicitUse for n's qualified path text, plus
// one further ImplicitUse for every generic type argument's inner type
// (spec.md §4.2: "Generic arguments contribute ImplicitUse entries for each
// TYPE_ARG's inner type but do not appear in the outer path").
func (ex *extractor) flattenPathLike(n rsyntax.Node, owner int, isPub bool) {
	path, rng, genericArgs := splitGenericPath(n, ex.source)
	if path != "" {
		ex.push(owner, domain.UsableObject{
			Visibility: visibilityOf(isPub),
			Kind:       domain.KindImplicitUse,
			Path:       path,
			TextRange:  domain.TextRange{Start: rng.Start, End: rng.End},
		})
	}
	if genericArgs.IsZero() {
		return
	}
	for _, targ := range genericArgs.TypeArgs() {
		inner := targ.Inner()
		if inner.Kind() == rsyntax.PathType || inner.Kind() == rsyntax.TupleType {
			ex.collectTypeUses(inner, owner, isPub)
		}
	}
}

func visibilityOf(isPub bool) domain.Visibility {
	if isPub {
		return domain.Public
	}
	return domain.Private
}

// splitGenericPath returns a path node's flattened "::"-joined text (with
// any generic argument list stripped) plus the type_arguments node, if any,
// so the caller can recurse into it separately.
func splitGenericPath(n rsyntax.Node, source []byte) (string, rsyntax.Range, rsyntax.Node) {
	if n.GrammarType() == "generic_type" {
		base, ok := n.ChildByFieldName("type")
		if !ok {
			return "", rsyntax.Range{}, rsyntax.Node{}
		}
		args, _ := n.ChildByFieldName("type_arguments")
		return base.Text(source), base.Byte(), args
	}
	return n.Text(source), n.Byte(), rsyntax.Node{}
}
