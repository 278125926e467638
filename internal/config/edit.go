package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/xdg/pinwarden/internal/clog"
)

// Edit opens Path() in $EDITOR (default vi), creating the default file
// first if needed. The result is validated afterwards; a broken file is
// logged, not returned, so the user can fix it later.
func Edit() error {
	if err := WriteDefaultConfig(false); err != nil && !errors.Is(err, ErrExists) {
		return fmt.Errorf("create default config: %w", err)
	}

	if err := openEditor(Path()); err != nil {
		return err
	}

	if _, err := Load(); err != nil {
		clog.Warn("config has errors after edit: %v", err)
	}
	return nil
}

func openEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", editor, err)
	}
	return nil
}
