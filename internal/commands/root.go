// Package commands implements the roost command-line interface.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/simonhull/roost"
	"github.com/simonhull/roost/internal/output"
)

// Run executes the CLI with args (including the program name) and returns
// the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	output.SetWriter(stdout)
	defer output.SetWriter(nil)

	rootCmd := RootCmd()
	rootCmd.AddCommand(GenerateCmd(stdin, stdout, stderr))
	rootCmd.AddCommand(ListCmd())

	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		output.Error(err.Error())
		return 1
	}
	return 0
}

// RootCmd creates the root command for the roost CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "roost",
		Short: "Opinionated scaffolding for Angular workspaces",
		Long: `Roost scaffolds an enterprise layout into an existing Angular workspace.

Every schematic works on an in-memory copy of the project. Nothing touches
the disk until the whole schematic has succeeded, and files you have
already written are only replaced where roost owns them outright.

Run 'roost list' to see the available schematics.`,
		Version:       roost.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}

func isVerbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}
