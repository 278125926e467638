package config

import "github.com/xdg/pinwarden/internal/pathutil"

// Overrides holds command-line values that take precedence over the file.
// Empty strings leave the configured value alone.
type Overrides struct {
	Backend string
	TTY     string
	LogFile string
	Debug   bool
}

// Apply returns a copy of cfg with the overrides applied. --debug forces
// log.level to debug.
func (o Overrides) Apply(cfg *Config) *Config {
	out := *cfg
	if o.Backend != "" {
		out.Dialog.Backend = o.Backend
	}
	if o.TTY != "" {
		out.Dialog.TTY = pathutil.ExpandHome(o.TTY)
	}
	if o.LogFile != "" {
		out.Log.File = pathutil.ExpandHome(o.LogFile)
	}
	if o.Debug {
		out.Log.Level = "debug"
	}
	return &out
}
