package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validBackends = map[string]bool{
	BackendTUI: true,
	BackendTTY: true,
}

// Validate checks a parsed Config. Empty fields are valid and mean
// "use the default". The error names the offending field.
func Validate(cfg *Config) error {
	if cfg.Dialog.Backend != "" && !validBackends[cfg.Dialog.Backend] {
		return fmt.Errorf("dialog.backend: must be %q or %q, got %q", BackendTUI, BackendTTY, cfg.Dialog.Backend)
	}
	if cfg.Dialog.Timeout != "" {
		if err := validateDuration(cfg.Dialog.Timeout, "dialog.timeout"); err != nil {
			return err
		}
	}
	if cfg.Log.Level != "" && !validLogLevels[cfg.Log.Level] {
		return fmt.Errorf("log.level: must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}
	if cfg.Log.Transcript && cfg.Log.File == "" {
		return fmt.Errorf("log.transcript: requires log.file")
	}
	return nil
}

func validateDuration(s, field string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, s, err)
	}
	if d < 0 {
		return fmt.Errorf("%s: must be non-negative, got %q", field, s)
	}
	return nil
}

// DialogTimeout returns the parsed dialog.timeout, or zero when unset.
// The value must already have passed Validate.
func (c *Config) DialogTimeout() time.Duration {
	if c.Dialog.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Dialog.Timeout)
	return d
}
