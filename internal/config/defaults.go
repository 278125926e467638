package config

import "strings"

// DefaultConfig returns a Config with every default populated.
func DefaultConfig() *Config {
	return &Config{
		Dialog: DialogConfig{
			Backend: BackendTUI,
			TTY:     "/dev/tty",
		},
		Log: LogConfig{
			File:  "~/.local/state/pinwarden/pinwarden.log",
			Level: "info",
		},
	}
}

// Template returns the commented default configuration with the given
// dialog backend.
func Template(backend string) string {
	return strings.Replace(defaultConfigTemplate, "backend: "+BackendTUI, "backend: "+backend, 1)
}

// defaultConfigTemplate must parse to the same values as DefaultConfig.
const defaultConfigTemplate = `# pinwarden configuration

dialog:
  # Dialog used to ask for the passphrase: tui (full screen) or tty (plain
  # prompt with hidden input).
  backend: tui

  # Terminal used when the caller does not send OPTION ttyname.
  tty: /dev/tty

  # Disable colors in the tui dialog. NO_COLOR in the environment also works.
  no_color: false

  # Cancel the dialog after this long when the caller sets no timeout.
  # Go duration syntax, e.g. "90s" or "2m". Empty means wait forever.
  timeout: ""

log:
  # Operational log. Nothing is ever logged to stdout.
  file: ~/.local/state/pinwarden/pinwarden.log

  # One of: debug, info, warn, error
  level: info

  # Append a session transcript to the log file. Passphrases are redacted.
  transcript: false
`
