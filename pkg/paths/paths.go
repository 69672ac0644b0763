// Package paths centralizes file locations for treesweep following the
// XDG Base Directory specification.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable overrides
const (
	// EnvConfigDir overrides the XDG config directory for treesweep
	EnvConfigDir = "TREESWEEP_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for treesweep
	EnvStateDir = "TREESWEEP_STATE_DIR"
)

const (
	appDirName = "treesweep"

	// ConfigFileName is the name of the cleanup configuration file
	ConfigFileName = "treesweep.toml"

	// UIFileName is the name of the XML menu layout description
	UIFileName = "treesweepui.rc"

	// LogFileName is the name of the log file
	LogFileName = "treesweep.log"
)

// ConfigDir returns the directory holding treesweep's configuration files.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// ConfigFilePath returns the path of the cleanup configuration file.
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// UIFilePath returns the path of the XML menu layout file.
func UIFilePath() string {
	return filepath.Join(ConfigDir(), UIFileName)
}

// LogFilePath returns the path of the log file under the state directory.
func LogFilePath() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return filepath.Join(dir, LogFileName)
	}
	return filepath.Join(xdg.StateHome, appDirName, LogFileName)
}
