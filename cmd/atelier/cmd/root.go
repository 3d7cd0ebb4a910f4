package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/adapters/filesystem"
	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/ports"
)

var (
	configFile  string
	libraryPath string

	cfg    *config.Config
	logger *slog.Logger
	repo   ports.CatalogRepository
)

var rootCmd = &cobra.Command{
	Use:   "atelier",
	Short: "CLI for managing a local asset catalog",
	Long: `atelier is a command-line interface for a local, file-backed
asset catalog: a hierarchical folder tree plus a flat set of asset
records, with marketplace feed imports that never create duplicates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if libraryPath != "" {
			cfg.LibraryPath = libraryPath
		}
		logger = logging.New(cfg.Log)

		repo = filesystem.NewRepository(cfg.LibraryPath, logger)
		if err := repo.Initialize(); err != nil {
			return err
		}
		return repo.Load()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to the config file")
	rootCmd.PersistentFlags().StringVarP(&libraryPath, "library", "l", "", "path to the library root (overrides config)")
}

// GetRepo returns the initialized repository
func GetRepo() ports.CatalogRepository {
	return repo
}
