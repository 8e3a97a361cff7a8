// controllersim is the development harness for the controller package: a
// small cobra CLI that runs a scripted match against an in-memory world, the
// way gascity's cmd/gc wraps its own internals in a root command plus
// per-concern subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "controllersim: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "controllersim",
		Short:         "Run and inspect the scripted-ai controller against an in-memory world",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newRunCmd(),
		newReplayCmd(),
		newValidateCmd(),
	)
	return root
}
