package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags on assets and folders",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <asset-id> <tag>",
	Short: "Add a tag to an asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetRepo().AddAssetTag(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Tagged %s with %q\n", args[0], args[1])
		return nil
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <asset-id> <tag>",
	Short: "Remove a tag from an asset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetRepo().RemoveAssetTag(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Removed %q from %s\n", args[1], args[0])
		return nil
	},
}

var tagRenameCmd = &cobra.Command{
	Use:   "rename <old-name> <new-name>",
	Short: "Rename a tag across every asset and folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetRepo().RenameTag(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Renamed tag %q to %q\n", args[0], args[1])
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a tag from every asset and folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetRepo().DeleteTag(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted tag %q\n", args[0])
		return nil
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCmd.AddCommand(tagRenameCmd)
	tagCmd.AddCommand(tagDeleteCmd)
	rootCmd.AddCommand(tagCmd)
}
