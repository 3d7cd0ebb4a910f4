package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Reconcile the cache against the per-asset documents",
	Long: `Re-scan every per-asset document on disk and correct the cached
snapshot where it has drifted: insert missing assets, drop orphaned
entries, refresh differing ones.

Example:
  atelier verify`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := <-GetRepo().VerifyAgainstDisk(context.Background())
		if report.Err != nil {
			return report.Err
		}
		fmt.Printf("Verified: %d inserted, %d removed, %d updated\n",
			report.Inserted, report.Removed, report.Updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
