package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbrazdil/minsfi-llvm/internal/version"
)

// NewVersionCommand prints the module version, grounded on cmd/wazero's
// "version" subcommand.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the abiverify version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion())
			return nil
		},
	}
}
