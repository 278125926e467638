package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/xdg/pinwarden/internal/clog"
	"github.com/xdg/pinwarden/internal/pathutil"
)

// Load reads Path(). A missing file yields DefaultConfig; nothing is
// written. Fields left empty in the file take their defaults, and ~ in
// paths is expanded.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	clog.Debug("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			clog.Debug("config: %s not found, using defaults", path)
			cfg := DefaultConfig()
			expandPaths(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	fillDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	expandPaths(cfg)
	return cfg, nil
}

// fillDefaults sets every empty field to its default. Booleans keep
// their parsed value.
func fillDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Dialog.Backend == "" {
		cfg.Dialog.Backend = def.Dialog.Backend
	}
	if cfg.Dialog.TTY == "" {
		cfg.Dialog.TTY = def.Dialog.TTY
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.File == "" {
		cfg.Log.File = def.Log.File
	}
}

func expandPaths(cfg *Config) {
	cfg.Dialog.TTY = pathutil.ExpandHome(cfg.Dialog.TTY)
	cfg.Log.File = pathutil.ExpandHome(cfg.Log.File)
}
