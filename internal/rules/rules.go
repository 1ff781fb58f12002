// Package rules evaluates an Architecture's declarative access rules and
// layer-coverage checks against a resolved domain.ModuleTree, grounded on
// arch_test_core's analyzer::materials::architecture and
// analyzer::domain_values::access_rules. The rule taxonomy's common
// contract, domain.AccessRule, and the violation record it produces,
// domain.RuleViolation, live in internal/domain so a violation can carry
// the concrete rule value that fired without this package importing domain
// in both directions.
package rules

import (
	"github.com/archtest-go/conform/internal/domain"
)

// Architecture is the rule set under test: a recognized layer vocabulary
// plus an ordered sequence of access rules. Order defines both evaluation
// and reporting order.
type Architecture struct {
	LayerNames  map[string]struct{}
	AccessRules []domain.AccessRule
}

// NewArchitecture builds an Architecture from a layer name list and an
// ordered rule sequence.
func NewArchitecture(layerNames []string, rules []domain.AccessRule) *Architecture {
	set := make(map[string]struct{}, len(layerNames))
	for _, n := range layerNames {
		set[n] = struct{}{}
	}
	return &Architecture{LayerNames: set, AccessRules: rules}
}

// ValidateAccessRules checks that every layer name mentioned by any rule
// belongs to LayerNames, in rule order, returning the first offender.
func (a *Architecture) ValidateAccessRules() (*domain.RuleViolation, error) {
	for _, rule := range a.AccessRules {
		if !rule.Validate(a.LayerNames) {
			return &domain.RuleViolation{Kind: domain.LayerDoesNotExist, OffendingRule: rule}, nil
		}
	}
	return nil, nil
}

// CheckCompleteLayerSpecification requires that every non-root node belong
// to some declared layer, via its own module name or its parent's.
func (a *Architecture) CheckCompleteLayerSpecification(tree *domain.ModuleTree) (*domain.RuleViolation, error) {
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		if node.IsRoot() {
			continue
		}
		if _, ok := a.LayerNames[node.ModuleName]; ok {
			continue
		}
		parent := tree.Node(*node.Parent)
		if _, ok := a.LayerNames[parent.ModuleName]; ok {
			continue
		}
		return &domain.RuleViolation{Kind: domain.IncompleteLayerSpecification}, nil
	}
	return nil, nil
}

// CheckAccessRules runs each rule's Check in order, returning the first
// violation found.
func (a *Architecture) CheckAccessRules(tree *domain.ModuleTree) (*domain.RuleViolation, error) {
	for _, rule := range a.AccessRules {
		v, err := rule.Check(tree)
		if err != nil {
			return nil, err
		}
		if v != nil {
			return v, nil
		}
	}
	return nil, nil
}

// matchesLayer reports whether node belongs to layer: by its own module
// name, or failing that, by its parent's module name, per §4.5's
// layer-to-node matching rule.
func matchesLayer(tree *domain.ModuleTree, node *domain.ModuleNode, layer string) bool {
	if node.ModuleName == layer {
		return true
	}
	if node.Parent != nil && tree.Node(*node.Parent).ModuleName == layer {
		return true
	}
	return false
}

// matchesAnyLayer reports whether node belongs to any of layers.
func matchesAnyLayer(tree *domain.ModuleTree, node *domain.ModuleNode, layers []string) bool {
	for _, l := range layers {
		if matchesLayer(tree, node, l) {
			return true
		}
	}
	return false
}

// sameParent reports whether a and b share the same parent node, or are
// both the root.
func sameParent(a, b *domain.ModuleNode) bool {
	switch {
	case a.Parent == nil && b.Parent == nil:
		return true
	case a.Parent == nil || b.Parent == nil:
		return false
	default:
		return *a.Parent == *b.Parent
	}
}

func allIn(names []string, layerNames map[string]struct{}) bool {
	for _, n := range names {
		if _, ok := layerNames[n]; !ok {
			return false
		}
	}
	return true
}
