package cleanup

import "fmt"

// Ids of the standard cleanups shipped with treesweep.
const (
	StdOpenFileManager = "cleanup_open_file_manager"
	StdOpenTerminal    = "cleanup_open_terminal"
	StdCompress        = "cleanup_compress"
	StdMakeClean       = "cleanup_make_clean"
	StdDeleteTrash     = "cleanup_delete_trash"
	StdMoveToTrash     = "cleanup_move_to_trash"
	StdHardDelete      = "cleanup_hard_delete"
)

// StdCleanups returns freshly built instances of the fixed, predefined
// cleanup set, in presentation order. Commands are defaults; users can
// change everything but the id via configuration.
func StdCleanups() []*Cleanup {
	return []*Cleanup{
		{
			ID:               StdOpenFileManager,
			Title:            "Open File Manager Here",
			Command:          "xdg-open %p",
			Enabled:          true,
			WorksForDir:      true,
			WorksForFile:     true,
			WorksForDotEntry: true,
			RefreshPolicy:    NoRefresh,
		},
		{
			ID:            StdOpenTerminal,
			Title:         "Open Terminal Here",
			Command:       "x-terminal-emulator",
			Enabled:       true,
			WorksForDir:   true,
			RefreshPolicy: NoRefresh,
		},
		{
			ID:                 StdCompress,
			Title:              "Compress",
			Command:            "cd .. && tar cjvf %n.tar.bz2 %n && rm -rf %n",
			Enabled:            true,
			WorksForDir:        true,
			AskForConfirmation: true,
			RefreshPolicy:      RefreshParent,
		},
		{
			ID:            StdMakeClean,
			Title:         "make clean",
			Command:       "make clean",
			Enabled:       true,
			WorksForDir:   true,
			RefreshPolicy: RefreshThis,
		},
		{
			ID:               StdDeleteTrash,
			Title:            "Delete Junk Files",
			Command:          "rm -f *~ *.bak *.auto core",
			Enabled:          true,
			WorksForDir:      true,
			WorksForDotEntry: true,
			Recurse:          true,
			RefreshPolicy:    RefreshThis,
		},
		{
			ID:                 StdMoveToTrash,
			Title:              "Move to Trash",
			Command:            "gio trash %p",
			Enabled:            true,
			WorksForDir:        true,
			WorksForFile:       true,
			WorksForDotEntry:   true,
			AskForConfirmation: true,
			RefreshPolicy:      RefreshParent,
		},
		{
			ID:                 StdHardDelete,
			Title:              "Delete (no way to undelete!)",
			Command:            "rm -rf %p",
			Enabled:            true,
			WorksForDir:        true,
			WorksForFile:       true,
			WorksForDotEntry:   true,
			AskForConfirmation: true,
			RefreshPolicy:      AssumeDeleted,
		},
	}
}

// NewUserCleanup returns a disabled placeholder cleanup carrying the given
// user cleanup number. The user fills in title and command later via
// configuration.
func NewUserCleanup(no int) *Cleanup {
	return &Cleanup{
		ID:               fmt.Sprintf("cleanup_user_defined_%d", no),
		Title:            fmt.Sprintf("Custom Cleanup %d", no),
		Enabled:          false,
		WorksForDir:      true,
		WorksForFile:     true,
		WorksForDotEntry: true,
		RefreshPolicy:    NoRefresh,
		UserDefined:      true,
	}
}
