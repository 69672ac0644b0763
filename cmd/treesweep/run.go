package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
	"github.com/arthur-debert/treesweep/pkg/tree"
)

var runYes bool

var runCmd = &cobra.Command{
	Use:   "run <cleanup-id> <path>",
	Short: "Run a cleanup on a directory tree entry",
	Long: `Scan the tree containing <path>, select the entry at <path> and run the
named cleanup on it. Cleanups marked "ask for confirmation" prompt first
unless --yes is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, target := args[0], args[1]

		store, err := loadStore()
		if err != nil {
			return err
		}

		col, _, err := buildCollection(store)
		if err != nil {
			return err
		}

		c := col.ByID(id)
		if c == nil {
			return errors.Newf(errors.ErrCleanupNotFound, "no cleanup with id %q; try 'treesweep list --all'", id)
		}

		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		scanRoot := abs
		if stat, statErr := os.Stat(abs); statErr == nil && !stat.IsDir() {
			scanRoot = filepath.Dir(abs)
		}
		root, err := tree.Scan(scanRoot)
		if err != nil {
			return err
		}

		item := root.Find(abs)
		if item == nil {
			item = root
		}

		col.SelectionChanged(item)
		if !c.Active() {
			return errors.Newf(errors.ErrCleanupExecute, "cleanup %q cannot run on %s", id, target)
		}

		if c.AskForConfirmation && !runYes {
			ok, _ := pterm.DefaultInteractiveConfirm.
				WithDefaultText(pterm.Sprintf("Run %q on %s?", c.Title, item.Path)).
				Show()
			if !ok {
				pterm.Info.Println("Aborted")
				return nil
			}
		}

		points := store.GetInt("treesweep.user_activity_points", 10)
		col.OnUserActivity = func(int) {
			logger := logging.GetLogger("activity")
			logger.Info().Int("points", points).Str("cleanup", c.ID).Msg("User activity")
		}

		if err := c.Execute(context.Background(), item, &execRunner{}); err != nil {
			pterm.Error.Printfln("Cleanup %s failed: %v", c.ID, err)
			return err
		}

		pterm.Success.Printfln("Cleanup %s finished (refresh: %s)", c.ID, c.RefreshPolicy)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip confirmation prompts")
}

// execRunner shells cleanups out through /bin/sh.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, command, workDir string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
