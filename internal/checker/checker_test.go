package checker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archtest-go/conform/internal/checker"
	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/rules"
)

func writeRoot(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

// TestDomainAccessingInfraIsForbidden exercises a direct explicit-use
// access from one layer to another a MayNotAccess rule forbids.
func TestDomainAccessingInfraIsForbidden(t *testing.T) {
	root := writeRoot(t, `
mod domain {
    use crate::infra::Thing;

    pub struct Widget;
}

mod infra {
    pub struct Thing;
}
`)
	arch := rules.NewArchitecture(
		[]string{"domain", "infra"},
		[]domain.AccessRule{rules.NewMayNotAccess("domain", []string{"infra"}, false)},
	)

	rep, err := checker.Run(context.Background(), root, arch)
	require.NoError(t, err)
	require.NotNil(t, rep.Violation)
	assert.Equal(t, domain.ForbiddenAccess, rep.Violation.Kind)
}

// TestLayeredCrateWithNoForbiddenAccessPasses mirrors the same structure
// without an offending use, confirming the rule does not false-positive.
func TestLayeredCrateWithNoForbiddenAccessPasses(t *testing.T) {
	root := writeRoot(t, `
mod domain {
    pub struct Widget;
}

mod infra {
    use crate::domain::Widget;

    pub struct Repo;
}
`)
	arch := rules.NewArchitecture(
		[]string{"domain", "infra"},
		[]domain.AccessRule{rules.NewMayNotAccess("domain", []string{"infra"}, false)},
	)

	rep, err := checker.Run(context.Background(), root, arch)
	require.NoError(t, err)
	assert.Nil(t, rep.Violation)
}

// TestIncompleteLayerSpecificationCatchesAnUnlayeredModule confirms a
// module belonging to no declared layer is flagged before any access rule
// runs.
func TestIncompleteLayerSpecificationCatchesAnUnlayeredModule(t *testing.T) {
	root := writeRoot(t, `
mod domain {
    pub struct Widget;
}

mod scratch {
    pub struct Notes;
}
`)
	arch := rules.NewArchitecture([]string{"domain"}, nil)

	rep, err := checker.Run(context.Background(), root, arch)
	require.NoError(t, err)
	require.NotNil(t, rep.Violation)
	assert.Equal(t, domain.IncompleteLayerSpecification, rep.Violation.Kind)
}

// TestMayOnlyAccessViolation confirms a MayOnlyAccess rule reports
// NotAllowedAccess the moment a disallowed layer is reached.
func TestMayOnlyAccessViolation(t *testing.T) {
	root := writeRoot(t, `
mod app {
    use crate::infra::Thing;

    pub struct Service;
}

mod infra {
    pub struct Thing;
}
`)
	arch := rules.NewArchitecture(
		[]string{"app", "infra", "domain"},
		[]domain.AccessRule{rules.NewMayOnlyAccess("app", []string{"domain"})},
	)

	rep, err := checker.Run(context.Background(), root, arch)
	require.NoError(t, err)
	require.NotNil(t, rep.Violation)
	assert.Equal(t, domain.NotAllowedAccess, rep.Violation.Kind)
}

// TestValidateAccessRulesCatchesUnknownLayerBeforeTreeChecks confirms the
// layer-name validity pass fires even when the module tree itself would
// otherwise conform, since it runs before any tree-dependent check.
func TestValidateAccessRulesCatchesUnknownLayerBeforeTreeChecks(t *testing.T) {
	root := writeRoot(t, `
mod domain {
    pub struct Widget;
}
`)
	arch := rules.NewArchitecture(
		[]string{"domain"},
		[]domain.AccessRule{rules.NewMayNotAccess("domain", []string{"ghost"}, false)},
	)

	rep, err := checker.Run(context.Background(), root, arch)
	require.NoError(t, err)
	require.NotNil(t, rep.Violation)
	assert.Equal(t, domain.LayerDoesNotExist, rep.Violation.Kind)
}

// TestCyclicDependencyBetweenSiblingModules mirrors a 2-cycle formed
// through a function's return type alone, an implicit use never expressed
// as an explicit `use` statement.
func TestCyclicDependencyBetweenSiblingModules(t *testing.T) {
	root := writeRoot(t, `
mod a {
    pub struct Other;

    pub fn make() -> crate::b::Thing {
        panic!()
    }
}

mod b {
    pub struct Thing;

    pub fn make() -> crate::a::Other {
        panic!()
    }
}
`)
	arch := rules.NewArchitecture([]string{"a", "b"}, nil)

	rep, err := checker.Run(context.Background(), root, arch)
	require.NoError(t, err)
	require.NotNil(t, rep.Violation)
	assert.Equal(t, domain.CyclicDependency, rep.Violation.Kind)
	assert.Len(t, rep.Violation.Witnesses, 2)
}
