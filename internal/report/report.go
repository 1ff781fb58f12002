// Package report renders a checker.Report for a human or a machine
// consumer: a tab-aligned console summary (grounded on GoClean's
// generateConsoleViolationsOutput) or JSON (grounded on GoClean's
// internal/reporters/json.go), plus a short unified-diff-style witness
// context for rule and cycle violations (grounded on the teacher's
// providers/base/provider.go generateDiff).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/archtest-go/conform/internal/checker"
	"github.com/archtest-go/conform/internal/domain"
)

// Console writes a plain, tab-aligned rendering of report to w.
func Console(w io.Writer, crateRoot string, report *checker.Report) error {
	if report.Violation == nil {
		fmt.Fprintf(w, "conform: %s: OK (%d nodes, %d parse errors)\n", crateRoot, report.Tree.Len(), report.ParseErrors)
		return nil
	}

	v := report.Violation
	fmt.Fprintf(w, "conform: %s: %s\n", crateRoot, v.Kind)
	if v.OffendingRule != nil {
		fmt.Fprintf(w, "rule: %s\n", v.OffendingRule.Describe())
	}
	if len(v.Witnesses) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", "NODE", "USES", "OWNER_NODE")
	for _, witness := range v.Witnesses {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", witness.NodeIndex, witness.Relation.UsedObject.Path, witness.Relation.OwnerNodeIndex)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, witness := range v.Witnesses {
		if ctx := WitnessContext(report.Tree, witness); ctx != "" {
			fmt.Fprint(w, ctx)
		}
	}
	return nil
}

// jsonReport is the wire shape JSON renders, independent of the internal
// checker.Report/domain types so the document stays stable even if those
// evolve.
type jsonReport struct {
	CrateRoot   string        `json:"crate_root"`
	Passed      bool          `json:"passed"`
	Kind        string        `json:"kind,omitempty"`
	Rule        string        `json:"rule,omitempty"`
	Witnesses   []jsonWitness `json:"witnesses,omitempty"`
	ParseErrors int           `json:"parse_errors"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
}

type jsonWitness struct {
	NodeIndex      int    `json:"node_index"`
	UsedPath       string `json:"used_path"`
	OwnerNodeIndex int    `json:"owner_node_index"`
}

// JSON writes report as a single JSON document to w.
func JSON(w io.Writer, crateRoot string, report *checker.Report) error {
	out := jsonReport{
		CrateRoot:   crateRoot,
		Passed:      report.Violation == nil,
		ParseErrors: report.ParseErrors,
		Diagnostics: report.Diagnostics,
	}
	if v := report.Violation; v != nil {
		out.Kind = string(v.Kind)
		if v.OffendingRule != nil {
			out.Rule = v.OffendingRule.Describe()
		}
		for _, witness := range v.Witnesses {
			out.Witnesses = append(out.Witnesses, jsonWitness{
				NodeIndex:      witness.NodeIndex,
				UsedPath:       witness.Relation.UsedObject.Path,
				OwnerNodeIndex: witness.Relation.OwnerNodeIndex,
			})
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// WitnessContext renders a short unified diff showing the source line of
// the witness's used object, read from the owning module's file
// (Relation.OwnerNodeIndex), against blank context, so a console reader
// sees what was reached without opening the file.
func WitnessContext(tree *domain.ModuleTree, witness domain.Witness) string {
	owner := tree.Node(witness.Relation.OwnerNodeIndex)
	line := sourceLine(owner.FilePath, witness.Relation.UsedObject.TextRange)
	if line == "" {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        []string{""},
		B:        []string{line},
		FromFile: owner.FilePath,
		ToFile:   owner.FilePath,
		Context:  0,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

// sourceLine reads path and returns the line containing rng.Start, or ""
// if the file can't be read or the range is empty.
func sourceLine(path string, rng domain.TextRange) string {
	if rng.Start == rng.End {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil || rng.Start >= len(data) {
		return ""
	}
	end := rng.End
	if end > len(data) {
		end = len(data)
	}
	start := rng.Start
	for start > 0 && data[start-1] != '\n' {
		start--
	}
	for end < len(data) && data[end] != '\n' {
		end++
	}
	return string(data[start:end])
}
