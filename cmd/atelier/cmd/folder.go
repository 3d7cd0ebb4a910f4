package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	folderParentID    string
	folderDescription string
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage the folder tree",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Long: `Create a plain folder, at the root or under --parent.

Examples:
  atelier folder create "Props"
  atelier folder create "Hats" --parent 01HV3Q2T8VJ9WX5K4M2P7R9BCD`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, err := GetRepo().CreateFolder(folderParentID, args[0], folderDescription)
		if err != nil {
			return err
		}
		fmt.Printf("Created folder: %s %s\n", folder.ID, folder.Name)
		return nil
	},
}

var folderMoveCmd = &cobra.Command{
	Use:   "move <folder-id> [new-parent-id]",
	Short: "Move a folder to a new parent (or to the root)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		newParentID := ""
		if len(args) == 2 {
			newParentID = args[1]
		}
		if err := GetRepo().MoveFolder(args[0], newParentID); err != nil {
			return err
		}
		fmt.Println("Moved folder:", args[0])
		return nil
	},
}

var folderReorderCmd = &cobra.Command{
	Use:   "reorder <folder-id> <index>",
	Short: "Change a folder's position among its siblings",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index: %s", args[1])
		}
		parent, ok := GetRepo().GetLibraryMetadata().FindParent(args[0])
		if !ok {
			return fmt.Errorf("folder not found: %s", args[0])
		}
		parentID := ""
		if parent != nil {
			parentID = parent.ID
		}
		if err := GetRepo().ReorderFolder(parentID, args[0], index); err != nil {
			return err
		}
		fmt.Println("Reordered folder:", args[0])
		return nil
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder subtree, soft-deleting its assets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetRepo().DeleteFolder(args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted folder:", args[0])
		return nil
	},
}

func init() {
	folderCreateCmd.Flags().StringVar(&folderParentID, "parent", "", "parent folder ID")
	folderCreateCmd.Flags().StringVar(&folderDescription, "description", "", "folder description")
	folderCmd.AddCommand(folderCreateCmd)
	folderCmd.AddCommand(folderMoveCmd)
	folderCmd.AddCommand(folderReorderCmd)
	folderCmd.AddCommand(folderDeleteCmd)
	rootCmd.AddCommand(folderCmd)
}
