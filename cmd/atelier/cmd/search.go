package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"atelier/internal/adapters/sqlite"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search assets by name, description or tag",
	Long: `Search the asset index. The index is a derived SQLite database
and is rebuilt from the catalog before querying when stale.

Example:
  atelier search "hair"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.LibraryPath); err != nil {
			return err
		}
		defer idx.Close()

		// Mutating commands do not maintain the index, so every search
		// reconciles it against the snapshot first: a full rebuild when
		// the schema or library path changed, an incremental diff
		// otherwise.
		assets := GetRepo().GetAllAssets()
		var err error
		if idx.NeedsFullRebuild() {
			_, err = idx.SyncFull(assets)
		} else {
			_, err = idx.SyncIncremental(assets)
		}
		if err != nil {
			return err
		}

		hits, err := idx.Search(args[0])
		if err != nil {
			return err
		}
		for _, hit := range hits {
			line := fmt.Sprintf("%s  %s", hit.ID, hit.Name)
			if hit.Extension != "" {
				line += "." + hit.Extension
			}
			fmt.Println(line)
		}
		fmt.Printf("%d matches\n", len(hits))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
