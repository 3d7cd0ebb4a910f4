package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listFolderID string
	listDeleted  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List assets in the catalog",
	Long: `List asset records, optionally filtered by folder.

Soft-deleted assets are hidden unless --deleted is given.

Examples:
  atelier list
  atelier list --folder 01HV3Q2T8VJ9WX5K4M2P7R9BCD
  atelier list --deleted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, asset := range GetRepo().GetAllAssets() {
			if asset.Deleted != listDeleted {
				continue
			}
			if listFolderID != "" && asset.FolderID != listFolderID {
				continue
			}
			line := fmt.Sprintf("%s  %s", asset.ID, asset.Name)
			if asset.Extension != "" {
				line += "." + asset.Extension
			}
			if len(asset.Tags) > 0 {
				line += fmt.Sprintf("  %v", asset.Tags)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFolderID, "folder", "", "only assets in this folder")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "show soft-deleted assets instead")
	rootCmd.AddCommand(listCmd)
}
