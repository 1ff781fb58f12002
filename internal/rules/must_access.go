package rules

import (
	"fmt"
	"strings"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/useresolve"
)

// MustAccess states that every node matching accessor must reference
// every layer in Required at least once.
type MustAccess struct {
	Accessor string
	Required []string
}

func NewMustAccess(accessor string, required []string) *MustAccess {
	return &MustAccess{Accessor: accessor, Required: required}
}

func (r *MustAccess) Validate(layerNames map[string]struct{}) bool {
	if _, ok := layerNames[r.Accessor]; !ok {
		return false
	}
	return allIn(r.Required, layerNames)
}

// Check reports a violation for the first accessor node, in index order,
// that fails to reach some required layer. The failure is an absence
// rather than an edge, so the violation carries no witness; the offending
// node and missing layer are named by the OffendingRule's Describe.
func (r *MustAccess) Check(tree *domain.ModuleTree) (*domain.RuleViolation, error) {
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		if !matchesLayer(tree, node, r.Accessor) {
			continue
		}
		reached := make(map[string]struct{})
		for _, rel := range useresolve.ObjectUses(tree, i, true) {
			target := tree.Node(rel.OwnerNodeIndex)
			for _, layer := range r.Required {
				if matchesLayer(tree, target, layer) {
					reached[layer] = struct{}{}
				}
			}
		}
		for _, layer := range r.Required {
			if _, ok := reached[layer]; !ok {
				return &domain.RuleViolation{
					Kind:          domain.RequiredAccessMissing,
					OffendingRule: &missingAccess{MustAccess: r, node: i, missing: layer},
				}, nil
			}
		}
	}
	return nil, nil
}

func (r *MustAccess) Describe() string {
	return fmt.Sprintf("MustAccess(%s, {%s})", r.Accessor, strings.Join(r.Required, ", "))
}

// missingAccess wraps a MustAccess rule with the specific node and layer
// that triggered the violation, so Describe can name them without
// widening MustAccess itself with per-call state.
type missingAccess struct {
	*MustAccess
	node    int
	missing string
}

func (m *missingAccess) Describe() string {
	return fmt.Sprintf("%s: node %d never references required layer %q", m.MustAccess.Describe(), m.node, m.missing)
}
