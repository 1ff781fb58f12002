package rules

import (
	"fmt"
	"strings"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/useresolve"
)

// MayOnlyAccess states that accessor may reference only the layers in
// Allowed; any other layer reached is a violation. Unlike
// MustNotAccessAnythingExcept, no implicit exception is made for the
// accessor's own layer.
type MayOnlyAccess struct {
	Accessor string
	Allowed  []string
}

func NewMayOnlyAccess(accessor string, allowed []string) *MayOnlyAccess {
	return &MayOnlyAccess{Accessor: accessor, Allowed: allowed}
}

func (r *MayOnlyAccess) Validate(layerNames map[string]struct{}) bool {
	if _, ok := layerNames[r.Accessor]; !ok {
		return false
	}
	return allIn(r.Allowed, layerNames)
}

func (r *MayOnlyAccess) Check(tree *domain.ModuleTree) (*domain.RuleViolation, error) {
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		if !matchesLayer(tree, node, r.Accessor) {
			continue
		}
		for _, rel := range useresolve.ObjectUses(tree, i, true) {
			target := tree.Node(rel.OwnerNodeIndex)
			if matchesAnyLayer(tree, target, r.Allowed) {
				continue
			}
			return &domain.RuleViolation{
				Kind:          domain.NotAllowedAccess,
				OffendingRule: r,
				Witnesses:     []domain.Witness{{NodeIndex: i, Relation: rel}},
			}, nil
		}
	}
	return nil, nil
}

func (r *MayOnlyAccess) Describe() string {
	return fmt.Sprintf("MayOnlyAccess(%s, {%s})", r.Accessor, strings.Join(r.Allowed, ", "))
}
