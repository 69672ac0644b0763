package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/treesweep/internal/version"
	"github.com/arthur-debert/treesweep/pkg/cleanup"
	"github.com/arthur-debert/treesweep/pkg/config"
	"github.com/arthur-debert/treesweep/pkg/logging"
	"github.com/arthur-debert/treesweep/pkg/menu"
	"github.com/arthur-debert/treesweep/pkg/paths"
)

var (
	verbosity  int
	configPath string

	rootCmd = &cobra.Command{
		Use:   "treesweep",
		Short: "Cleanup actions for directory trees",
		Long: `treesweep manages a collection of cleanup actions for directory trees:
predefined cleanups like compressing a subtree or deleting junk files, plus
user-defined ones, all configurable through a single TOML file.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. Called once from main.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is "+paths.ConfigFileName+" under the XDG config dir)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(genconfigCmd)
	rootCmd.AddCommand(docsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treesweep version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

// loadStore opens the configuration store, honoring the --config override.
func loadStore() (*config.Store, error) {
	path := configPath
	if path == "" {
		path = paths.ConfigFilePath()
	}
	store := config.NewStore(path)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// buildCollection assembles the full cleanup collection: standard set,
// configured number of user cleanups, settings applied from the store.
func buildCollection(store *config.Store) (*cleanup.Collection, *menu.Registry, error) {
	registry := menu.NewRegistry()
	col := cleanup.New(registry)

	if err := col.AddStdCleanups(); err != nil {
		return nil, nil, err
	}

	userCleanups := store.GetInt("treesweep.user_cleanups", 0)
	if err := col.AddUserCleanups(userCleanups); err != nil {
		return nil, nil, err
	}

	if err := col.ReadConfig(store); err != nil {
		// Bad per-cleanup settings are reported but do not block the
		// rest of the collection from being usable.
		log.Warn().Err(err).Msg("Some cleanup settings could not be applied")
	}

	return col, registry, nil
}
