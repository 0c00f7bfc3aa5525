package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/uploadlog"
)

func newUploadsCommand() *cobra.Command {
	var dir string
	var limit int

	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "Show the upload history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			entries, err := uploadlog.Read(root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No uploads.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := newTable(out)
			fmt.Fprintln(tw, "TIME\tFILE\tSHEETS\tPAYMENTS\tUNMATCHED\tOUTCOME")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\t%d\t%s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.File,
					e.SheetsProcessed, e.SheetsScanned, e.Payments, e.Unmatched, e.Outcome)
			}
			return tw.Flush()
		},
	}

	addDirFlag(cmd, &dir)
	cmd.Flags().IntVar(&limit, "limit", 20, "most recent entries to show (0 for all)")
	return cmd
}
