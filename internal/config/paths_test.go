package config

import (
	"os"
	"testing"
)

func TestDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("os.UserHomeDir() error = %v", err)
	}

	want := home + "/.config/pinwarden/"
	if got := Dir(); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	if got := Dir(); got != "/custom/config/pinwarden/" {
		t.Errorf("Dir() = %q", got)
	}
	if got := Path(); got != "/custom/config/pinwarden/config.yaml" {
		t.Errorf("Path() = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(Dir())
	if err != nil {
		t.Fatalf("os.Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Error("Dir() is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("permissions = %o, want 700", perm)
	}

	// Idempotent.
	if err := EnsureDir(); err != nil {
		t.Errorf("second EnsureDir() error = %v", err)
	}
}
