// Command conform is the architecture conformance checker's CLI shell: it
// locates the root source file and architecture specification, invokes
// internal/checker, and formats the result. Grounded on
// ericfisherdev-GoClean/cmd/goclean/main.go's root/subcommand/flag/exit-code
// structure and termfx-morfx/cmd/morfx's cobra usage.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version can be overridden at build time with -ldflags "-X main.Version=x.y.z".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "conform",
	Short:   "Architecture conformance checker for Rust crates",
	Version: Version,
	Long: `conform walks a Rust crate's module tree, resolves its use
relations, and checks them against a declarative architecture
specification of layers and access rules, reporting the first violation
or a cyclic dependency if the crate does not conform.`,
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func main() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 2
		if ce, ok := err.(*cmdError); ok {
			code = ce.code
		}
		os.Exit(code)
	}
}
