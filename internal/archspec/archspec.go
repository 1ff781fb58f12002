// Package archspec loads the architecture specification (layer names and
// access rules) an external caller supplies from a YAML document, plus
// optional .env-style runtime overrides, grounded on GoClean's
// internal/config.Load and the teacher's go.mod dependency on godotenv.
// Neither spec.md's core nor this checker's engine ever parses YAML
// directly; archspec is the boundary that materializes a rules.Architecture
// from disk before handing it to internal/checker.
package archspec

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/rules"
)

// Spec is the on-disk shape of an architecture specification document.
type Spec struct {
	Layers []string    `yaml:"layers"`
	Rules  []RuleEntry `yaml:"rules"`
}

// RuleEntry is one tagged rule in the document. Type selects which of
// Accessor/Accessed/Allowed/Required/WhenSameParent apply; unused fields
// are left zero.
type RuleEntry struct {
	Type           string   `yaml:"type"`
	Accessor       string   `yaml:"accessor"`
	Accessed       []string `yaml:"accessed"`
	Allowed        []string `yaml:"allowed"`
	Required       []string `yaml:"required"`
	WhenSameParent bool     `yaml:"when_same_parent"`
}

const (
	typeMayNotAccess                = "may_not_access"
	typeMustNotAccessAnythingExcept = "must_not_access_anything_except"
	typeMayOnlyAccess               = "may_only_access"
	typeMustAccess                  = "must_access"
)

// Load reads and unmarshals the architecture specification at path and
// materializes it into a rules.Architecture.
func Load(path string) (*rules.Architecture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("archspec: reading %s: %w", path, err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("archspec: parsing %s: %w", path, err)
	}

	accessRules := make([]domain.AccessRule, 0, len(spec.Rules))
	for i, entry := range spec.Rules {
		rule, err := entry.toAccessRule()
		if err != nil {
			return nil, fmt.Errorf("archspec: %s: rule %d: %w", path, i, err)
		}
		accessRules = append(accessRules, rule)
	}

	return rules.NewArchitecture(spec.Layers, accessRules), nil
}

func (e RuleEntry) toAccessRule() (domain.AccessRule, error) {
	switch e.Type {
	case typeMayNotAccess:
		return rules.NewMayNotAccess(e.Accessor, e.Accessed, e.WhenSameParent), nil
	case typeMustNotAccessAnythingExcept:
		return rules.NewMustNotAccessAnythingExcept(e.Accessor, e.Allowed), nil
	case typeMayOnlyAccess:
		return rules.NewMayOnlyAccess(e.Accessor, e.Allowed), nil
	case typeMustAccess:
		return rules.NewMustAccess(e.Accessor, e.Required), nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", e.Type)
	}
}

// LoadEnv loads .env-style overrides (such as the libsql auth token
// history.Connect reads) from path if it exists, silently doing nothing
// otherwise; an explicit
// environment variable already set is never overwritten.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("archspec: loading %s: %w", path, err)
	}
	return nil
}
