package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/sflowg/voltage/plugins/voltage"
)

func newSchemaCmd() *cobra.Command {
	var credentialsOnly bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the node description as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if credentialsOnly {
				return enc.Encode(voltage.CredentialDescription())
			}
			return enc.Encode(voltage.Description())
		},
	}

	cmd.Flags().BoolVar(&credentialsOnly, "credentials", false, "Print the voltageApi credential description instead")
	return cmd
}
