package cleanup

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
	"github.com/arthur-debert/treesweep/pkg/tree"
)

// RefreshPolicy tells the owning view what to re-read after a cleanup ran.
type RefreshPolicy int

const (
	// NoRefresh means the cleanup does not change the tree
	NoRefresh RefreshPolicy = iota
	// RefreshThis re-reads the subtree the cleanup ran on
	RefreshThis
	// RefreshParent re-reads the parent of the entry the cleanup ran on
	RefreshParent
	// AssumeDeleted drops the entry from the tree without re-reading
	AssumeDeleted
)

// String returns the policy name used in config files
func (p RefreshPolicy) String() string {
	switch p {
	case NoRefresh:
		return "noRefresh"
	case RefreshThis:
		return "refreshThis"
	case RefreshParent:
		return "refreshParent"
	case AssumeDeleted:
		return "assumeDeleted"
	default:
		return "unknown"
	}
}

// ParseRefreshPolicy converts a config value back into a RefreshPolicy.
func ParseRefreshPolicy(s string) (RefreshPolicy, error) {
	switch s {
	case "noRefresh":
		return NoRefresh, nil
	case "refreshThis":
		return RefreshThis, nil
	case "refreshParent":
		return RefreshParent, nil
	case "assumeDeleted":
		return AssumeDeleted, nil
	default:
		return NoRefresh, errors.Newf(errors.ErrConfigParse, "unknown refresh policy %q", s)
	}
}

// Runner executes a cleanup's expanded command. Injected so callers decide
// how commands reach the OS and tests can stub the shell away.
type Runner interface {
	Run(ctx context.Context, command, workDir string) error
}

// Registrar is the host registration context cleanups are wired into when
// added to a collection, typically a menu/toolbar system. Opaque to this
// package beyond these two calls.
type Registrar interface {
	Register(c *Cleanup) error
	Deregister(id string)
}

// ConfigStore is the persisted key-value store cleanups read and save
// their settings through.
type ConfigStore interface {
	Has(key string) bool
	GetString(key, def string) string
	GetBool(key string, def bool) bool
	GetInt(key string, def int) int
	Set(key string, value interface{}) error
}

// Cleanup is one named action applied to entries of the browsed tree.
// All settings except ID and UserDefined are user-tunable and persisted.
type Cleanup struct {
	// ID is the internal name, unique within a collection.
	ID string
	// Title is the user-visible name shown in menus.
	Title string
	// Command is the shell command template. %p expands to the entry's
	// full path, %n to its name, %% to a literal percent sign.
	Command string

	Enabled            bool
	WorksForDir        bool
	WorksForFile       bool
	WorksForDotEntry   bool
	Recurse            bool
	AskForConfirmation bool
	RefreshPolicy      RefreshPolicy

	// UserDefined marks cleanups created by the end user rather than
	// shipped with the application.
	UserDefined bool

	// Live wiring. Never survives a deep copy.
	host       Registrar
	onExecuted func()
	target     *tree.FileInfo
}

// WorksFor reports whether the cleanup applies to the given entry.
// A nil entry (cleared selection) matches nothing.
func (c *Cleanup) WorksFor(item *tree.FileInfo) bool {
	if item == nil {
		return false
	}
	switch item.Kind {
	case tree.KindDir:
		return c.WorksForDir
	case tree.KindFile:
		return c.WorksForFile
	case tree.KindDotEntry:
		return c.WorksForDotEntry
	default:
		return false
	}
}

// SelectionChanged records the currently selected entry. A nil item means
// the selection was cleared and is stored as such.
func (c *Cleanup) SelectionChanged(item *tree.FileInfo) {
	c.target = item
}

// CurrentTarget returns the entry recorded by the last SelectionChanged,
// which may be nil.
func (c *Cleanup) CurrentTarget() *tree.FileInfo {
	return c.target
}

// Active reports whether the cleanup could run right now: it is enabled
// and applies to the current selection.
func (c *Cleanup) Active() bool {
	return c.Enabled && c.WorksFor(c.target)
}

// ExpandedCommand returns Command with %p, %n and %% expanded for the
// given entry.
func (c *Cleanup) ExpandedCommand(item *tree.FileInfo) string {
	var sb strings.Builder
	cmd := c.Command
	for i := 0; i < len(cmd); i++ {
		if cmd[i] != '%' || i+1 >= len(cmd) {
			sb.WriteByte(cmd[i])
			continue
		}
		switch cmd[i+1] {
		case 'p':
			sb.WriteString(item.Path)
			i++
		case 'n':
			sb.WriteString(item.Name)
			i++
		case '%':
			sb.WriteByte('%')
			i++
		default:
			sb.WriteByte(cmd[i])
		}
	}
	return sb.String()
}

// Execute runs the cleanup on the given entry through the runner. With
// Recurse set, applicable descendants are processed after the entry
// itself. The executed hook fires once per call, after a successful run.
func (c *Cleanup) Execute(ctx context.Context, item *tree.FileInfo, runner Runner) error {
	logger := logging.GetLogger("cleanup")

	if item == nil {
		return errors.Newf(errors.ErrInvalidInput, "cleanup %q needs an entry to run on", c.ID)
	}
	if !c.Enabled {
		return errors.Newf(errors.ErrCleanupDisabled, "cleanup %q is disabled", c.ID)
	}
	if !c.WorksFor(item) {
		return errors.Newf(errors.ErrCleanupExecute, "cleanup %q does not work for %s entries", c.ID, item.Kind).
			WithDetail("path", item.Path)
	}

	if err := c.executeTree(ctx, item, runner); err != nil {
		return err
	}

	if c.onExecuted != nil {
		c.onExecuted()
	}

	logger.Debug().Str("id", c.ID).Str("path", item.Path).Msg("Cleanup executed")
	return nil
}

// executeTree runs the command for the entry and, with Recurse set, for
// every applicable descendant.
func (c *Cleanup) executeTree(ctx context.Context, item *tree.FileInfo, runner Runner) error {
	command := c.ExpandedCommand(item)

	workDir := item.Path
	if !item.IsDir() && item.Parent != nil {
		workDir = item.Parent.Path
	}

	if err := runner.Run(ctx, command, workDir); err != nil {
		return errors.Wrapf(err, errors.ErrCleanupExecute, "cleanup %q failed on %s", c.ID, item.Path)
	}

	if c.Recurse {
		for _, child := range item.Children {
			if !c.WorksFor(child) {
				continue
			}
			if err := c.executeTree(ctx, child, runner); err != nil {
				return err
			}
		}
	}

	return nil
}

// Clone returns a deep value copy with all live wiring dropped: no host
// registration, no executed hook, no recorded selection. Clones are for
// save/restore only and must not be driven like the original.
func (c *Cleanup) Clone() *Cleanup {
	clone := *c
	clone.host = nil
	clone.onExecuted = nil
	clone.target = nil
	return &clone
}

// configKey returns the store key for one of the cleanup's settings.
func (c *Cleanup) configKey(field string) string {
	return fmt.Sprintf("%s.%s", c.ID, field)
}

// ReadConfig refreshes the cleanup's user-tunable settings from the store.
// Absent keys leave the current value untouched.
func (c *Cleanup) ReadConfig(store ConfigStore) error {
	c.Title = store.GetString(c.configKey("title"), c.Title)
	c.Command = store.GetString(c.configKey("command"), c.Command)
	c.Enabled = store.GetBool(c.configKey("enabled"), c.Enabled)
	c.WorksForDir = store.GetBool(c.configKey("works_for_dir"), c.WorksForDir)
	c.WorksForFile = store.GetBool(c.configKey("works_for_file"), c.WorksForFile)
	c.WorksForDotEntry = store.GetBool(c.configKey("works_for_dot_entry"), c.WorksForDotEntry)
	c.Recurse = store.GetBool(c.configKey("recurse"), c.Recurse)
	c.AskForConfirmation = store.GetBool(c.configKey("ask_for_confirmation"), c.AskForConfirmation)

	if key := c.configKey("refresh_policy"); store.Has(key) {
		policy, err := ParseRefreshPolicy(store.GetString(key, c.RefreshPolicy.String()))
		if err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "bad refresh policy for cleanup %q", c.ID)
		}
		c.RefreshPolicy = policy
	}

	return nil
}

// SaveConfig writes the cleanup's user-tunable settings to the store.
func (c *Cleanup) SaveConfig(store ConfigStore) error {
	settings := map[string]interface{}{
		"title":                c.Title,
		"command":              c.Command,
		"enabled":              c.Enabled,
		"works_for_dir":        c.WorksForDir,
		"works_for_file":       c.WorksForFile,
		"works_for_dot_entry":  c.WorksForDotEntry,
		"recurse":              c.Recurse,
		"ask_for_confirmation": c.AskForConfirmation,
		"refresh_policy":       c.RefreshPolicy.String(),
	}

	for field, value := range settings {
		if err := store.Set(c.configKey(field), value); err != nil {
			return err
		}
	}
	return nil
}
