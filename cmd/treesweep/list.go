package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/treesweep/pkg/cleanup"
	"github.com/arthur-debert/treesweep/pkg/menu"
	"github.com/arthur-debert/treesweep/pkg/paths"
)

var (
	listAll    bool
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured cleanups",
	Long: `List the cleanups in menu order, as declared by the layout file
(` + paths.UIFileName + `). Disabled cleanups are hidden unless --all is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}

		col, registry, err := buildCollection(store)
		if err != nil {
			return err
		}

		layout, err := menu.LoadLayout(paths.UIFilePath())
		if err != nil {
			return err
		}

		switch listFormat {
		case "text":
			printMenus(cmd, layout.Resolve(registry))
			return nil
		case "yaml":
			return printYAML(cmd, col)
		default:
			return fmt.Errorf("unknown format %q (want text or yaml)", listFormat)
		}
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include disabled cleanups")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text or yaml")
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	idStyle        = lipgloss.NewStyle().Faint(true)
	disabledStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

func printMenus(cmd *cobra.Command, menus []menu.ResolvedMenu) {
	styled := isatty.IsTerminal(os.Stdout.Fd())
	render := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	for _, m := range menus {
		fmt.Fprintln(cmd.OutOrStdout(), render(menuTitleStyle, m.Name))
		for i, section := range m.Sections {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "  ---")
			}
			for _, c := range section {
				if !c.Enabled && !listAll {
					continue
				}
				title := c.Title
				if !c.Enabled {
					title = render(disabledStyle, title)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-32s %s\n", title, render(idStyle, c.ID))
			}
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
}

// listEntry is the YAML projection of one cleanup.
type listEntry struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Command       string `yaml:"command,omitempty"`
	Enabled       bool   `yaml:"enabled"`
	UserDefined   bool   `yaml:"userDefined"`
	RefreshPolicy string `yaml:"refreshPolicy"`
}

func printYAML(cmd *cobra.Command, col *cleanup.Collection) error {
	var entries []listEntry
	for _, c := range col.Cleanups() {
		if !c.Enabled && !listAll {
			continue
		}
		entries = append(entries, listEntry{
			ID:            c.ID,
			Title:         c.Title,
			Command:       c.Command,
			Enabled:       c.Enabled,
			UserDefined:   c.UserDefined,
			RefreshPolicy: c.RefreshPolicy.String(),
		})
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
