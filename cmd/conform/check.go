package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/archtest-go/conform/internal/archspec"
	"github.com/archtest-go/conform/internal/checker"
	"github.com/archtest-go/conform/internal/cycle"
	"github.com/archtest-go/conform/internal/domain"
	"github.com/archtest-go/conform/internal/history"
	"github.com/archtest-go/conform/internal/report"
)

func newCheckCmd() *cobra.Command {
	var (
		specPath  string
		cargoRoot string
		historyDB string
		format    string
		level     int
	)

	cmd := &cobra.Command{
		Use:   "check <root>",
		Short: "Check a crate's module tree against an architecture specification",
		Long: `check parses the crate whose root source file (main or lib) is <root>,
builds its module tree, and evaluates it against the architecture
specification named by --spec (default: architecture.yaml in --cargo-root,
or in <root>'s directory when --cargo-root is unset).

Examples:
  conform check ./src/main.rs
  conform check ./src/lib.rs --spec ./architecture.yaml --format json
  conform check ./src/lib.rs --history-db ./conform-history.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rootFile := args[0]
			if specPath == "" {
				base := cargoRoot
				if base == "" {
					base = filepath.Dir(rootFile)
				}
				specPath = filepath.Join(base, "architecture.yaml")
			}

			if err := archspec.LoadEnv(filepath.Join(filepath.Dir(specPath), ".env")); err != nil {
				return exitErr(2, err)
			}

			arch, err := archspec.Load(specPath)
			if err != nil {
				return exitErr(2, err)
			}

			rep, err := checker.Run(context.Background(), rootFile, arch)
			if err != nil {
				return exitErr(2, err)
			}

			if level > 0 && rep.Violation == nil {
				if witnesses := cycle.FindCycleAtLevel(rep.Tree, level); witnesses != nil {
					rep.Violation = &domain.RuleViolation{Kind: domain.CyclicDependency, Witnesses: witnesses}
				}
			}

			if historyDB != "" {
				if err := recordHistory(historyDB, rootFile, rep); err != nil {
					fmt.Fprintf(os.Stderr, "conform: warning: recording history: %v\n", err)
				}
			}

			if err := renderReport(cmd, format, rootFile, rep); err != nil {
				return exitErr(2, err)
			}

			if rep.Violation != nil {
				return exitErr(1, fmt.Errorf("architecture violation: %s", rep.Violation.Kind))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specPath, "spec", "", "path to the architecture specification YAML (default <cargo-root>/architecture.yaml)")
	cmd.Flags().StringVar(&cargoRoot, "cargo-root", "", "crate root used to resolve --spec's default location (default: <root>'s directory)")
	cmd.Flags().StringVar(&historyDB, "history-db", "", "DSN of a SQLite/libsql database to record this run's outcome into")
	cmd.Flags().StringVar(&format, "format", "console", "output format: console or json")
	cmd.Flags().IntVar(&level, "level", 0, "also check for a cyclic dependency aggregated at this tree level")

	return cmd
}

func renderReport(cmd *cobra.Command, format, rootFile string, rep *checker.Report) error {
	switch format {
	case "json":
		return report.JSON(cmd.OutOrStdout(), rootFile, rep)
	case "console", "":
		return report.Console(cmd.OutOrStdout(), rootFile, rep)
	default:
		return fmt.Errorf("unknown format %q: want console or json", format)
	}
}

func recordHistory(dsn, crateRoot string, rep *checker.Report) error {
	db, err := history.Connect(dsn, false)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return history.Record(db, uuid.NewString(), crateRoot, rep.Violation, rep.ParseErrors)
}

// cmdError carries the process exit code alongside the message cobra
// prints, so main can translate it without cobra's own error handling
// masking the intended code (0 success, 1 violation, 2 fatal error).
type cmdError struct {
	code int
	err  error
}

func (e *cmdError) Error() string { return e.err.Error() }

func exitErr(code int, err error) error {
	return &cmdError{code: code, err: err}
}
