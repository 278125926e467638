// Package pathutil resolves user paths: ~ expansion and the XDG base
// directories pinwarden keeps its files under.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading ~ in path with the user's home directory.
// The path is returned unchanged if the home directory is unknown.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// ConfigHome returns $XDG_CONFIG_HOME, or ~/.config when it is unset.
// A ~ in the variable is expanded.
func ConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", "~/.config")
}

// StateHome returns $XDG_STATE_HOME, or ~/.local/state when it is unset.
func StateHome() string {
	return xdgDir("XDG_STATE_HOME", "~/.local/state")
}

func xdgDir(env, fallback string) string {
	dir := os.Getenv(env)
	if dir == "" {
		dir = fallback
	}
	return ExpandHome(dir)
}
