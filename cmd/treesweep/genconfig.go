package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/treesweep/pkg/config"
	"github.com/arthur-debert/treesweep/pkg/paths"
)

var genconfigOutput string

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Write a config file with every cleanup's current settings",
	Long: `Write the full cleanup configuration to a TOML file, starting from the
built-in defaults plus any existing user config. Edit the result to rename
cleanups, change commands or enable the user-defined slots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}

		col, _, err := buildCollection(store)
		if err != nil {
			return err
		}

		out := genconfigOutput
		if out == "" {
			out = paths.ConfigFilePath()
		}
		target := config.NewStore(out)
		if err := target.Load(); err != nil {
			return err
		}

		if err := col.SaveConfig(target); err != nil {
			return err
		}
		if err := target.Save(); err != nil {
			return err
		}

		pterm.Success.Printfln("Wrote %d cleanup(s) to %s", col.Size(), out)
		return nil
	},
}

func init() {
	genconfigCmd.Flags().StringVarP(&genconfigOutput, "output", "o", "", "Output file (default is the user config file)")
}
