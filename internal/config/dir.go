// Package config loads gitinfo settings from YAML files and the environment.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gitinfo"

// Dir returns the user-level directory holding config.yaml, or "" when no
// home directory is known. GITINFO_CONFIG_HOME names it directly; otherwise
// it is the gitinfo subdirectory of XDG_CONFIG_HOME, of %AppData% on
// Windows, or of ~/.config.
func Dir() string {
	if dir := os.Getenv("GITINFO_CONFIG_HOME"); dir != "" {
		return dir
	}

	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" && runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
	}
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName)
}
