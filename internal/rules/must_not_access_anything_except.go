package rules

import (
	"fmt"
	"strings"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/useresolve"
)

// MustNotAccessAnythingExcept states that accessor may reference only the
// layers in Allowed, or itself; any other layer reached is a violation.
type MustNotAccessAnythingExcept struct {
	Accessor string
	Allowed  []string
}

func NewMustNotAccessAnythingExcept(accessor string, allowed []string) *MustNotAccessAnythingExcept {
	return &MustNotAccessAnythingExcept{Accessor: accessor, Allowed: allowed}
}

func (r *MustNotAccessAnythingExcept) Validate(layerNames map[string]struct{}) bool {
	if _, ok := layerNames[r.Accessor]; !ok {
		return false
	}
	return allIn(r.Allowed, layerNames)
}

func (r *MustNotAccessAnythingExcept) Check(tree *domain.ModuleTree) (*domain.RuleViolation, error) {
	for i := 0; i < tree.Len(); i++ {
		node := tree.Node(i)
		if !matchesLayer(tree, node, r.Accessor) {
			continue
		}
		for _, rel := range useresolve.ObjectUses(tree, i, true) {
			target := tree.Node(rel.OwnerNodeIndex)
			if matchesLayer(tree, target, r.Accessor) {
				continue // accessing its own layer is always permitted
			}
			if matchesAnyLayer(tree, target, r.Allowed) {
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

func (r *MustNotAccessAnythingExcept) Describe() string {
	return fmt.Sprintf("MustNotAccessAnythingExcept(%s, {%s})", r.Accessor, strings.Join(r.Allowed, ", "))
}
