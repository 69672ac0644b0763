package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

//go:embed docs/treesweep.md
var docsContent string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the treesweep user guide",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), renderMarkdown(docsContent))
		return nil
	},
}

// renderMarkdown renders the guide for the terminal, falling back to the
// raw markdown when output is piped or rendering fails.
func renderMarkdown(content string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return content
	}

	options := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if termenv.ColorProfile() == termenv.Ascii {
		options = append(options, glamour.WithStandardStyle("notty"))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
