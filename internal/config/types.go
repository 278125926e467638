// Package config handles pinwarden's YAML configuration file.
package config

// Config is the top-level configuration read from config.yaml.
type Config struct {
	Dialog DialogConfig `yaml:"dialog,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
}

// DialogConfig selects and tunes the passphrase dialog.
type DialogConfig struct {
	// Backend is "tui" or "tty".
	Backend string `yaml:"backend,omitempty"`
	// TTY is the terminal used when the caller sends no OPTION ttyname.
	TTY string `yaml:"tty,omitempty"`
	// NoColor disables styling in the tui backend. The NO_COLOR
	// environment variable has the same effect.
	NoColor bool `yaml:"no_color,omitempty"`
	// Timeout bounds a dialog when the caller sends no SETTIMEOUT.
	// Empty or "0" means no limit.
	Timeout string `yaml:"timeout,omitempty"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	File  string `yaml:"file,omitempty"`
	Level string `yaml:"level,omitempty"`
	// Transcript appends a redacted record of every session to File.
	Transcript bool `yaml:"transcript,omitempty"`
}

// Dialog backends.
const (
	BackendTUI = "tui"
	BackendTTY = "tty"
)
