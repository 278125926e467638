package cmd

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/xdg/pinwarden/internal/config"
	"github.com/xdg/pinwarden/internal/prompt"
	"github.com/xdg/pinwarden/internal/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Manage pinwarden's configuration.

The configuration file is stored at ~/.config/pinwarden/config.yaml
(or $XDG_CONFIG_HOME/pinwarden/config.yaml if XDG_CONFIG_HOME is set).
Command-line flags override it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		term.SetSilent(configFlags.quiet)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Print the effective configuration as YAML.

If no config file exists, shows the defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the config file in $EDITOR",
	Long: `Open the configuration file in your editor.

The editor is taken from EDITOR, falling back to vi. A default file is
created first if none exists.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config file",
	Long: `Create the default configuration file with every setting documented.

On a terminal you are asked which dialog backend to use and, if the file
already exists, whether to replace it. Otherwise --backend selects the
backend and --force is required to replace an existing file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configFlags struct {
	quiet bool
}

var configInitFlags struct {
	force   bool
	backend string
}

func init() {
	configCmd.PersistentFlags().BoolVarP(&configFlags.quiet, "quiet", "q", false, "print nothing but errors; never ask questions")
	configInitCmd.Flags().BoolVar(&configInitFlags.force, "force", false, "replace an existing config file")
	configInitCmd.Flags().StringVar(&configInitFlags.backend, "backend", "", "dialog backend to write: tui or tty")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

// questioner is what config init asks with.
type questioner interface {
	prompt.Chooser
	prompt.Confirmer
}

// newQuestioner returns nil when config init must not ask questions.
var newQuestioner = func(cmd *cobra.Command) questioner {
	if term.IsSilent() || !prompt.IsTerminal(os.Stdin) {
		return nil
	}
	return prompt.NewLinePrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	term.Print(string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	if err := config.Edit(); err != nil {
		return fmt.Errorf("failed to edit config: %w", err)
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) {
	term.Println(config.Path())
}

var backends = []string{config.BackendTUI, config.BackendTTY}

func runConfigInit(cmd *cobra.Command, args []string) error {
	q := newQuestioner(cmd)
	path := config.Path()

	backend := configInitFlags.backend
	if backend == "" {
		backend = config.BackendTUI
		if q != nil {
			i, err := q.Choose("Dialog backend:", backends, 0)
			if err != nil {
				return err
			}
			backend = backends[i]
		}
	}
	if !slices.Contains(backends, backend) {
		return fmt.Errorf("unknown backend %q: must be tui or tty", backend)
	}

	overwrite := configInitFlags.force
	if _, err := os.Stat(path); err == nil && !overwrite && q != nil {
		ok, err := q.Confirm(fmt.Sprintf("%s exists. Replace it?", path), false)
		if err != nil {
			return err
		}
		if !ok {
			term.Println("Config left unchanged.")
			return nil
		}
		overwrite = true
	}

	err := config.WriteTemplate(backend, overwrite)
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%s already exists; use --force to replace it", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	term.Printf("Created config at: %s\n", path)
	return nil
}
