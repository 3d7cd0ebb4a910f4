package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/application/importer"
)

var (
	importParentID string
	addFolderID    string
)

var importCmd = &cobra.Command{
	Use:   "import <payload.json>",
	Short: "Import a marketplace feed payload",
	Long: `Import a marketplace feed payload from a JSON file.

The payload is either an array of shop objects or an object wrapping
such an array under "shops". Files already known to the catalog are
skipped; every imported item gets (or reuses) its own marketplace-item
folder.

Examples:
  atelier import feed.json
  atelier import feed.json --parent 01HV3Q2T8VJ9WX5K4M2P7R9BCD`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
		shops, err := importer.ParsePayload(data)
		if err != nil {
			return err
		}

		rc := importer.NewReconciler(GetRepo(), nil, logger)
		count, err := rc.Reconcile(shops, importParentID)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d new assets\n", count)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a local file to the catalog",
	Long: `Copy a local file into the catalog and create an asset record
for it.

Examples:
  atelier add model.fbx
  atelier add texture.png --parent 01HV3Q2T8VJ9WX5K4M2P7R9BCD`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asset, err := GetRepo().ImportFile(args[0], addFolderID)
		if err != nil {
			return err
		}
		fmt.Printf("Added asset: %s %s\n", asset.ID, asset.Name)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importParentID, "parent", "", "parent folder ID for new folders")
	addCmd.Flags().StringVar(&addFolderID, "parent", "", "folder ID for the new asset")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(addCmd)
}
