package rules

import (
	"fmt"
	"strings"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/useresolve"
)

// MayNotAccess states that accessor may not reach any of accessed. As a
// layer name it matches either a node's own module name or its parent's,
// whichever matches first. When WhenSameParent is set, the rule only
// applies to a relation whose two endpoints share the same parent node.
type MayNotAccess struct {
	Accessor       string
	Accessed       []string
	WhenSameParent bool
}

// NewMayNotAccess builds a MayNotAccess rule.
func NewMayNotAccess(accessor string, accessed []string, whenSameParent bool) *MayNotAccess {
	return &MayNotAccess{Accessor: accessor, Accessed: accessed, WhenSameParent: whenSameParent}
}

func (r *MayNotAccess) Validate(layerNames map[string]struct{}) bool {
	if _, ok := layerNames[r.Accessor]; !ok {
		return false
	}
	return allIn(r.Accessed, layerNames)
}

func (r *MayNotAccess) Check(tree *domain.ModuleTree) (*domain.RuleViolation, error) {
	if len(r.Accessed) == 0 {
		return nil, nil
	}
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		if !matchesLayer(tree, node, r.Accessor) {
			continue
		}
		for _, rel := range useresolve.ObjectUses(tree, i, true) {
			target := tree.Node(rel.OwnerNodeIndex)
			if !matchesAnyLayer(tree, target, r.Accessed) {
				continue
			}
			if r.WhenSameParent && !sameParent(node, target) {
				continue
			}
			return &domain.RuleViolation{
				Kind:          domain.ForbiddenAccess,
				OffendingRule: r,
				Witnesses:     []domain.Witness{{NodeIndex: i, Relation: rel}},
			}, nil
		}
	}
	return nil, nil
}

func (r *MayNotAccess) Describe() string {
	return fmt.Sprintf("MayNotAccess(%s, {%s}, when_same_parent=%v)", r.Accessor, strings.Join(r.Accessed, ", "), r.WhenSameParent)
}
