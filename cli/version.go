package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/agentflow/version"
)

// newCmdVersion creates the `version` command. It needs no configuration.
func newCmdVersion() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "json" {
				return printJSON(cmd.OutOrStdout(), version.GetVersionInfo())
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "text", "format (text|json)")
	return cmd
}
