package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"atelier/internal/domain"
)

var treeAll bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the folder tree",
	Long: `Display the library folder tree.

Marketplace-item and backup folders at the root are hidden unless
--all is given; nested ones are always shown.

Example:
  atelier tree`,
	RunE: func(cmd *cobra.Command, args []string) error {
		library := GetRepo().GetLibraryMetadata()
		roots := library.Roots
		if !treeAll {
			roots = library.RootFolders()
		}
		for _, root := range roots {
			printTree(root, 0)
		}
		return nil
	},
}

func printTree(node *domain.FolderNode, depth int) {
	indent := strings.Repeat("  ", depth)
	label := node.Name
	if node.Kind != domain.KindFolder {
		label += fmt.Sprintf(" [%s]", node.Kind)
	}
	fmt.Printf("%s%s %s\n", indent, node.ID, label)

	for _, child := range node.Children {
		printTree(child, depth+1)
	}
}

func init() {
	treeCmd.Flags().BoolVar(&treeAll, "all", false, "include marketplace-item and backup roots")
	rootCmd.AddCommand(treeCmd)
}
