// Package checker is the orchestration façade tying module-tree
// construction, use resolution, rule evaluation and cycle detection
// together into a single conformance run.
package checker

import (
	"context"
	"fmt"

	"github.com/archtest-go/conform/internal/cycle"
	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/moduletree"
	"github.com/archtest-go/conform/internal/rules"
)

// Report is the outcome of a single Run: either success (Violation is nil)
// or the one RuleViolation that fired, plus whatever diagnostics the
// module-tree build collected along the way.
type Report struct {
	Violation   *domain.RuleViolation
	Diagnostics []string
	ParseErrors int
	Tree        *domain.ModuleTree
}

// Run builds root's module tree and checks it against arch, in the order
// spec.md §4.5 prescribes: layer-name validity first, then complete-layer
// coverage, then the access rules in sequence, then cycle detection across
// all aggregate levels. It returns on the first violation found; a caller
// wanting every violation must invoke Run once per rule.
func Run(ctx context.Context, root string, arch *rules.Architecture) (*Report, error) {
	built, err := moduletree.Build(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("checker: building module tree: %w", err)
	}

	report := &Report{
		Diagnostics: built.Diagnostics,
		ParseErrors: built.ParseErrors,
		Tree:        built.Tree,
	}

	if v, err := arch.ValidateAccessRules(); err != nil {
		return nil, fmt.Errorf("checker: validating access rules: %w", err)
	} else if v != nil {
		report.Violation = v
		return report, nil
	}

	if v, err := arch.CheckCompleteLayerSpecification(built.Tree); err != nil {
		return nil, fmt.Errorf("checker: checking layer coverage: %w", err)
	} else if v != nil {
		report.Violation = v
		return report, nil
	}

	if v, err := arch.CheckAccessRules(built.Tree); err != nil {
		return nil, fmt.Errorf("checker: checking access rules: %w", err)
	} else if v != nil {
		report.Violation = v
		return report, nil
	}

	if witnesses := cycle.FindCycleAtAnyLevel(built.Tree); witnesses != nil {
		report.Violation = &domain.RuleViolation{Kind: domain.CyclicDependency, Witnesses: witnesses}
		return report, nil
	}

	return report, nil
}
