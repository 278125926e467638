package config

import (
	"errors"
	"fmt"
	"os"
)

// ErrExists is returned by WriteDefaultConfig when the file is already
// present and overwrite was not requested.
var ErrExists = errors.New("config file already exists")

// WriteDefaultConfig writes the commented default configuration to Path()
// with 0600 permissions, creating the directory if needed.
func WriteDefaultConfig(overwrite bool) error {
	return WriteTemplate(BackendTUI, overwrite)
}

// WriteTemplate is WriteDefaultConfig with another dialog backend.
func WriteTemplate(backend string, overwrite bool) error {
	if !validBackends[backend] {
		return fmt.Errorf("dialog.backend: unknown backend %q", backend)
	}
	return writeFile(Path(), []byte(Template(backend)), overwrite)
}

func writeFile(path string, data []byte, overwrite bool) error {
	_, err := os.Stat(path)
	if err == nil && !overwrite {
		return ErrExists
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := EnsureDir(); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
