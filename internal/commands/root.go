package commands

import (
	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "partnerpay",
		Short:   "Partner payment ingestion and reconciliation",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newPartnerCommand(),
		newImportCommand(),
		newPaymentsCommand(),
		newReportCommand(),
		newUploadsCommand(),
	)

	return rootCmd
}
