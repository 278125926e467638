package config

import (
	"fmt"
	"os"

	"github.com/xdg/pinwarden/internal/pathutil"
)

// Dir returns the pinwarden configuration directory, with a trailing slash:
// $XDG_CONFIG_HOME/pinwarden/ or ~/.config/pinwarden/.
func Dir() string {
	return pathutil.ConfigHome() + "/pinwarden/"
}

// EnsureDir creates the configuration directory with 0700 permissions.
func EnsureDir() error {
	if err := os.MkdirAll(Dir(), 0o700); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	return nil
}

// Path returns the full path to config.yaml.
func Path() string {
	return Dir() + "config.yaml"
}
