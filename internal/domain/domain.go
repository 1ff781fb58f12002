// Package domain holds the pure data model the rest of this checker
// operates over: the module tree, the objects each module defines or
// references, and the evidence attached to a violation. Nothing in this
// package performs syntax parsing, file I/O, or rule evaluation; those
// concerns live in pathextract, moduletree, useresolve, rules and cycle.
package domain

// ObjectKind classifies a UsableObject.
type ObjectKind string

const (
	KindStruct      ObjectKind = "Struct"
	KindEnum        ObjectKind = "Enum"
	KindTrait       ObjectKind = "Trait"
	KindFunction    ObjectKind = "Function"
	KindUse         ObjectKind = "Use"
	KindRePublish   ObjectKind = "RePublish"
	KindImplicitUse ObjectKind = "ImplicitUse"
)

// Visibility of a UsableObject.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// TextRange is a byte span within a module's source file, used for
// diagnostics and reporting.
type TextRange struct {
	Start int
	End   int
}

// UsableObject is something a module defines, re-exports, or references.
// Use and RePublish denote explicit import statements; ImplicitUse denotes
// a type reference inside a signature, body, field, pattern or impl
// header; Struct, Enum, Trait and Function denote a definition at the
// owning node.
type UsableObject struct {
	Visibility Visibility
	Kind       ObjectKind
	Path       string
	TextRange  TextRange
}

// IsDefinition reports whether obj is a definition or re-export, the two
// kinds eligible for the possible_uses index.
func (obj UsableObject) IsDefinition() bool {
	switch obj.Kind {
	case KindStruct, KindEnum, KindTrait, KindFunction, KindRePublish:
		return true
	default:
		return false
	}
}

// ModuleNode is one source file or inline sub-module.
type ModuleNode struct {
	Index         int
	FilePath      string
	Level         int
	Parent        *int
	ModuleName    string
	Children      []int
	UsableObjects []UsableObject
}

// IsRoot reports whether n has no parent.
func (n *ModuleNode) IsRoot() bool { return n.Parent == nil }

// ModuleRef is a bodiless `mod foo;` item awaiting file-system resolution,
// named (parent_index, name) per spec.
type ModuleRef struct {
	ParentIndex int
	Name        string
}

// UseRelation is a resolved edge from a referring object to the object it
// points to. It is constructed lazily by the resolver and never stored in
// the tree.
type UseRelation struct {
	UsedObject     UsableObject
	OwnerNodeIndex int
}

// possibleUseEntry is the value half of the ModuleTree.possible_uses index.
type possibleUseEntry struct {
	ownerIndex int
	object     UsableObject
	depth      int // shallowest-wins tie-break
}

// ModuleTree is the aggregate module graph. Tree is insertion-ordered and
// indexed by ModuleNode.Index; for any node n with a parent p, p < n.Index
// and n.Index appears in tree[p].Children. Level equals the length of the
// ancestor chain to the root.
type ModuleTree struct {
	Nodes []ModuleNode

	// possibleUses maps a fully-qualified path, and separately the bare
	// definition name, to its owner node and object. Built once by the
	// tree builder and queried many times by the resolver.
	possibleUses map[string]possibleUseEntry
}

// NewModuleTree returns an empty tree ready for the builder to populate.
func NewModuleTree() *ModuleTree {
	return &ModuleTree{possibleUses: make(map[string]possibleUseEntry)}
}

// Node returns the node at index i. The builder guarantees indices are
// dense and valid; callers index unchecked like the teacher's own
// arena-style lookups.
func (t *ModuleTree) Node(i int) *ModuleNode { return &t.Nodes[i] }

// Len returns the number of nodes in the tree.
func (t *ModuleTree) Len() int { return len(t.Nodes) }

// IndexPossibleUse records path as resolving to (ownerIndex, obj) at the
// given depth, keeping the shallowest, then lowest-index, entry on
// collision per spec.md §4.3.
func (t *ModuleTree) IndexPossibleUse(path string, ownerIndex int, obj UsableObject, depth int) {
	existing, ok := t.possibleUses[path]
	if !ok {
		t.possibleUses[path] = possibleUseEntry{ownerIndex: ownerIndex, object: obj, depth: depth}
		return
	}
	if depth < existing.depth || (depth == existing.depth && ownerIndex < existing.ownerIndex) {
		t.possibleUses[path] = possibleUseEntry{ownerIndex: ownerIndex, object: obj, depth: depth}
	}
}

// LookupPossibleUse resolves a fully-qualified or bare path against the
// possible_uses index.
func (t *ModuleTree) LookupPossibleUse(path string) (ownerIndex int, obj UsableObject, ok bool) {
	entry, found := t.possibleUses[path]
	if !found {
		return 0, UsableObject{}, false
	}
	return entry.ownerIndex, entry.object, true
}

// AncestorChain returns the module-name chain from the crate root's first
// level child down through node index, excluding the root itself: root-
// level items are referenced unqualified (or via an explicit "crate::"
// prefix the resolver rewrites separately), never prefixed with the crate's
// own name.
func (t *ModuleTree) AncestorChain(index int) []string {
	names := []string{}
	node := t.Node(index)
	for node.Parent != nil {
		names = append([]string{node.ModuleName}, names...)
		node = t.Node(*node.Parent)
	}
	return names
}

// IncludedNodes returns index plus every descendant of index, used to
// collapse a subtree to its level-L root during per-level cycle
// aggregation.
func (t *ModuleTree) IncludedNodes(index int) []int {
	included := []int{index}
	node := t.Node(index)
	for _, c := range node.Children {
		included = append(included, t.IncludedNodes(c)...)
	}
	return included
}

// FindModule returns the index of the node whose fully-qualified module
// path (its AncestorChain) equals path, used to resolve the target module
// of a wildcard use. The empty path matches the crate root.
func (t *ModuleTree) FindModule(path string) (int, bool) {
	if path == "" {
		return 0, t.Len() > 0
	}
	for i := 0; i < t.Len(); i++ {
		if joinChain(t.AncestorChain(i)) == path {
			return i, true
		}
	}
	return 0, false
}

func joinChain(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "::"
		}
		out += p
	}
	return out
}

// Witness is one edge of evidence attached to a RuleViolation: the node it
// originates from and the relation it traverses. For a cycle, the sequence
// closes on itself.
type Witness struct {
	NodeIndex int
	Relation  UseRelation
}

// ViolationKind tags the reason a RuleViolation fired.
type ViolationKind string

const (
	LayerDoesNotExist            ViolationKind = "LayerDoesNotExist"
	IncompleteLayerSpecification ViolationKind = "IncompleteLayerSpecification"
	ForbiddenAccess              ViolationKind = "ForbiddenAccess"
	RequiredAccessMissing        ViolationKind = "RequiredAccessMissing"
	NotAllowedAccess             ViolationKind = "NotAllowedAccess"
	CyclicDependency             ViolationKind = "CyclicDependency"
)

// AccessRule is the common contract every rule kind implements: a
// layer-name validity check and a tree check reporting at most one
// violation. Defined here, rather than in internal/rules, so RuleViolation
// can carry the concrete offending rule value without rules importing
// domain in both directions.
type AccessRule interface {
	// Validate reports whether every layer name the rule mentions belongs
	// to layerNames.
	Validate(layerNames map[string]struct{}) bool
	// Check evaluates the rule against tree, returning the offending
	// violation if the rule fails. A nil, nil result means the rule held.
	Check(tree *ModuleTree) (*RuleViolation, error)
	// Describe renders the rule for display.
	Describe() string
}

// RuleViolation is the single report an architecture check can produce.
// OffendingRule holds the concrete rule value that fired, mirroring the
// original's Box<dyn AccessRule>; it is nil for IncompleteLayerSpecification,
// which has no backing rule value.
type RuleViolation struct {
	Kind          ViolationKind
	OffendingRule AccessRule
	Witnesses     []Witness
}
