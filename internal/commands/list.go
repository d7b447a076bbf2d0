package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/roost/internal/generators"
)

// ListCmd creates the 'list' command, which prints the available schematics.
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available schematics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := generators.Collection()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range c.Entries() {
				if e.Hidden {
					continue
				}
				name := e.Name
				if len(e.Aliases) > 0 {
					name += " (" + strings.Join(e.Aliases, ", ") + ")"
				}
				fmt.Fprintf(out, "%-36s %s\n", name, e.Description)
			}
			return nil
		},
	}
}
