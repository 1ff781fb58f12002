// Package rsyntax wraps the tree-sitter Rust grammar behind the closed node
// taxonomy the rest of this checker reasons about, so nothing outside this
// package imports github.com/smacker/go-tree-sitter directly.
package rsyntax

// Kind is the closed set of syntax node kinds the path extractor dispatches
// on. It is a projection of tree-sitter-rust's grammar onto the vocabulary
// this checker needs; several grammar node types collapse onto one Kind
// (e.g. both function_item and function_signature_item become FN) and a
// handful of Kinds (RetType, TypeArg) have no dedicated grammar node at all
// because tree-sitter-rust exposes them as plain fields instead of wrapper
// nodes — those are produced synthetically by Node, see node.go.
type Kind string

const (
	Unknown Kind = ""

	Use           Kind = "USE"
	UseTree       Kind = "USE_TREE"
	UseTreeList   Kind = "USE_TREE_LIST"
	Path          Kind = "PATH"
	PathType      Kind = "PATH_TYPE"
	PathSegment   Kind = "PATH_SEGMENT"
	PathExpr      Kind = "PATH_EXPR"
	PathPat       Kind = "PATH_PAT"
	Name          Kind = "NAME"
	NameRef       Kind = "NAME_REF"
	Visibility    Kind = "VISIBILITY"
	Struct        Kind = "STRUCT"
	Enum          Kind = "ENUM"
	Trait         Kind = "TRAIT"
	Fn            Kind = "FN"
	Impl          Kind = "IMPL"
	Module        Kind = "MODULE"
	ItemList      Kind = "ITEM_LIST"
	AssocItemList Kind = "ASSOC_ITEM_LIST"
	RecordFieldList Kind = "RECORD_FIELD_LIST"
	TupleFieldList  Kind = "TUPLE_FIELD_LIST"
	VariantList     Kind = "VARIANT_LIST"
	ParamList       Kind = "PARAM_LIST"
	RetType         Kind = "RET_TYPE"
	BlockExpr       Kind = "BLOCK_EXPR"
	MatchExpr       Kind = "MATCH_EXPR"
	MatchArmList    Kind = "MATCH_ARM_LIST"
	TupleType       Kind = "TUPLE_TYPE"
	TuplePat        Kind = "TUPLE_PAT"
	TupleStructPat  Kind = "TUPLE_STRUCT_PAT"
	WildcardPat     Kind = "WILDCARD_PAT"
	OrPat           Kind = "OR_PAT"
	RecordPat       Kind = "RECORD_PAT"
	IdentPat        Kind = "IDENT_PAT"
	RefType         Kind = "REF_TYPE"
	SliceType       Kind = "SLICE_TYPE"
	ParenType       Kind = "PAREN_TYPE"
	ImplTraitType   Kind = "IMPL_TRAIT_TYPE"
	TypeBoundList   Kind = "TYPE_BOUND_LIST"
	TypeBound       Kind = "TYPE_BOUND"
	GenericArgList  Kind = "GENERIC_ARG_LIST"
	TypeArg         Kind = "TYPE_ARG"
	ExternCrate     Kind = "EXTERN_CRATE"
	MacroCall       Kind = "MACRO_CALL"
	Attr            Kind = "ATTR"
	Literal         Kind = "LITERAL"
	BreakExpr       Kind = "BREAK_EXPR"
	ContinueExpr    Kind = "CONTINUE_EXPR"

	// Remaining expression/statement kinds that recurse through their
	// children unchanged (spec.md §4.2's "remaining kinds" bucket). NAME_REF
	// itself is in this bucket too (kind.go's NameRef, a leaf with nothing
	// to recurse into); it is listed with the other Kind constants above.
	RangeExpr    Kind = "RANGE_EXPR"
	FieldExpr    Kind = "FIELD_EXPR"
	LetStmt      Kind = "LET_STMT"
	BinExpr      Kind = "BIN_EXPR"
	TupleExpr    Kind = "TUPLE_EXPR"
	ParenExpr    Kind = "PAREN_EXPR"
	MethodCallExpr Kind = "METHOD_CALL_EXPR"
	CallExpr     Kind = "CALL_EXPR"
	ClosureExpr  Kind = "CLOSURE_EXPR"
	PrefixExpr   Kind = "PREFIX_EXPR"
	RefExpr      Kind = "REF_EXPR"
	IfExpr       Kind = "IF_EXPR"
	ForExpr      Kind = "FOR_EXPR"
	WhileExpr    Kind = "WHILE_EXPR"
	ReturnExpr   Kind = "RETURN_EXPR"
	IndexExpr    Kind = "INDEX_EXPR"
	CastExpr     Kind = "CAST_EXPR"
	TryExpr      Kind = "TRY_EXPR"
	Condition    Kind = "CONDITION"
	ArgList      Kind = "ARG_LIST"
	ExprStmt     Kind = "EXPR_STMT"

	SourceFile Kind = "SOURCE_FILE"
	Error      Kind = "ERROR"
	MatchArm   Kind = "MATCH_ARM"
	Lifetime   Kind = "LIFETIME"
)

// recurseKinds recurse through all children unchanged, per spec.md §4.2's
// "remaining expression/statement kinds" bucket.
var recurseKinds = map[Kind]bool{
	NameRef: true, RangeExpr: true, FieldExpr: true, BlockExpr: true,
	LetStmt: true, BinExpr: true, TupleExpr: true, ParenExpr: true,
	MethodCallExpr: true, CallExpr: true, ClosureExpr: true, PrefixExpr: true,
	RefExpr: true, IfExpr: true, ForExpr: true, WhileExpr: true,
	ReturnExpr: true, IndexExpr: true, CastExpr: true, TryExpr: true,
	Condition: true, ArgList: true, ExprStmt: true, SourceFile: true,
}

// skipKinds are known coarse approximations the extractor deliberately
// ignores, per spec.md §4.2.
var skipKinds = map[Kind]bool{
	ExternCrate: true, MacroCall: true, Attr: true, Literal: true,
	IdentPat: true, BreakExpr: true, ContinueExpr: true,
}

// Recurses reports whether kind falls in the "recurse through children
// unchanged" bucket of spec.md §4.2.
func (k Kind) Recurses() bool { return recurseKinds[k] }

// Skipped reports whether kind is a known, deliberately-ignored
// approximation per spec.md §4.2.
func (k Kind) Skipped() bool { return skipKinds[k] }

// grammarKind maps a tree-sitter-rust node type string onto our Kind. Types
// with no entry fall through to Unknown, which the extractor logs as a
// diagnostic and otherwise ignores.
var grammarKind = map[string]Kind{
	"source_file": SourceFile,

	"use_declaration":   Use,
	"use_wildcard":       UseTree,
	"use_as_clause":      UseTree,
	"scoped_use_list":    UseTree,
	"use_list":           UseTreeList,
	"identifier":         NameRef,
	"field_identifier":   NameRef,
	"scoped_identifier":  Path,
	"crate":              NameRef,
	"self":               NameRef,
	"super":               NameRef,
	"lifetime":            Lifetime,

	"visibility_modifier": Visibility,

	"struct_item": Struct,
	"enum_item":   Enum,
	"trait_item":  Trait,

	"function_item":           Fn,
	"function_signature_item": Fn,

	"impl_item": Impl,
	"mod_item":  Module,

	"declaration_list": ItemList,

	"field_declaration_list":         RecordFieldList,
	"ordered_field_declaration_list": TupleFieldList,
	"enum_variant_list":              VariantList,
	"parameters":                     ParamList,

	"block":          BlockExpr,
	"match_expression": MatchExpr,
	"match_block":     MatchArmList,
	"match_arm":       MatchArm,

	"tuple_type":     TupleType,
	"tuple_pattern":  TuplePat,
	"tuple_struct_pattern": TupleStructPat,
	"_":                    WildcardPat,
	"or_pattern":           OrPat,
	"struct_pattern":       RecordPat,

	"reference_type": RefType,
	"array_type":     SliceType,
	"abstract_type":  ImplTraitType,
	"trait_bounds":   TypeBoundList,
	"type_arguments": GenericArgList,
	"type_identifier":        PathType,
	"scoped_type_identifier": PathType,
	"generic_type":           PathType,

	"extern_crate_declaration": ExternCrate,
	"macro_invocation":         MacroCall,
	"attribute_item":           Attr,
	"inner_attribute_item":     Attr,

	"integer_literal": Literal, "string_literal": Literal,
	"char_literal": Literal, "boolean_literal": Literal,
	"float_literal": Literal, "raw_string_literal": Literal,

	"break_expression":    BreakExpr,
	"continue_expression": ContinueExpr,

	"field_expression":   FieldExpr,
	"range_expression":   RangeExpr,
	"let_declaration":    LetStmt,
	"binary_expression":  BinExpr,
	"tuple_expression":   TupleExpr,
	"parenthesized_expression": ParenExpr,
	"call_expression":       CallExpr,
	"closure_expression":    ClosureExpr,
	"unary_expression":      PrefixExpr,
	"reference_expression":  RefExpr,
	"method_call_expression": MethodCallExpr,
	"if_expression":         IfExpr,
	"for_expression":        ForExpr,
	"while_expression":      WhileExpr,
	"return_expression":     ReturnExpr,
	"index_expression":      IndexExpr,
	"type_cast_expression":  CastExpr,
	"try_expression":         TryExpr,
	"arguments":             ArgList,
	"expression_statement":  ExprStmt,

	"ERROR": Error,
}

func kindOf(nodeType string) Kind {
	if k, ok := grammarKind[nodeType]; ok {
		return k
	}
	return Unknown
}
