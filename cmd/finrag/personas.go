package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"finrag/internal/assistant"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the personas available for simulation",
	// The catalog is fixed, so no configuration or model client is needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := assistant.DefaultCatalog()
		width, _ := cmd.Flags().GetInt("width")
		for i := 0; i < catalog.Len(); i++ {
			p, _ := catalog.At(i)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", p.ID, wrapText(p.RoleDescription, width))
		}
		return nil
	},
}

func init() {
	personasCmd.Flags().Int("width", 80, "wrap output at this many columns (0 disables wrapping)")
	rootCmd.AddCommand(personasCmd)
}
