// Package cmd implements the pinwarden command line.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/xdg/pinwarden/internal/audit"
	"github.com/xdg/pinwarden/internal/clog"
	"github.com/xdg/pinwarden/internal/config"
	"github.com/xdg/pinwarden/internal/dialog"
	"github.com/xdg/pinwarden/internal/session"
	"github.com/xdg/pinwarden/internal/term"
	"github.com/xdg/pinwarden/internal/version"
)

// flavor prefixes the GETINFO flavor reply; the dialog backend follows it.
const flavor = "pinwarden"

var rootFlags struct {
	debug      bool
	backend    string
	ttyName    string
	ttyType    string
	display    string
	logFile    string
	timeout    int
	lcCtype    string
	lcMessages string
}

var rootCmd = &cobra.Command{
	Use:   "pinwarden",
	Short: "Terminal pinentry for gpg-agent and other Assuan clients",
	Long: `pinwarden is a pinentry program. The caller (usually gpg-agent) starts it,
sends prompt directives on stdin and reads the passphrase the user typed from
stdout. The dialog is drawn on the caller's terminal, not on stdin/stdout.

To use it with GnuPG, add to ~/.gnupg/gpg-agent.conf:

    pinentry-program /path/to/pinwarden

Settings are read from ~/.config/pinwarden/config.yaml; see "pinwarden config".`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPinentry,
}

func init() {
	f := rootCmd.Flags()
	f.BoolVar(&rootFlags.debug, "debug", false, "log every directive and reply (secrets are redacted)")
	f.StringVar(&rootFlags.backend, "backend", "", "dialog backend: tui or tty (default from config)")
	f.StringVar(&rootFlags.ttyName, "ttyname", "", "terminal to draw the dialog on")
	f.StringVar(&rootFlags.ttyType, "ttytype", "", "terminal type of --ttyname")
	f.StringVar(&rootFlags.logFile, "log-file", "", "operational log file (default from config)")
	f.IntVar(&rootFlags.timeout, "timeout", 0, "cancel the dialog after this many seconds when the caller sets none")

	// Passed by some gpg-agent versions; accepted and reported, not used.
	f.StringVar(&rootFlags.display, "display", "", "X display (ignored)")
	f.StringVar(&rootFlags.lcCtype, "lc-ctype", "", "locale for character classification (ignored)")
	f.StringVar(&rootFlags.lcMessages, "lc-messages", "", "locale for messages (ignored)")
	for _, name := range []string{"display", "lc-ctype", "lc-messages"} {
		_ = f.MarkHidden(name)
	}
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
}

// normalizeFlagName accepts underscores for dashes (--lc_ctype).
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Execute runs the root command and prints any error that needs reporting.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !silent(err) {
		term.Error("%v", err)
	}
	return err
}

// runPinentry answers one session on stdin/stdout.
func runPinentry(cmd *cobra.Command, args []string) error {
	defer term.Reserve()()

	cfg, err := loadConfig()
	if err != nil {
		return NewExitCodeError(ExitConfig, err)
	}
	setupLogging(cfg)
	defer func() { _ = clog.Close() }()

	d, err := dialog.New(cfg.Dialog)
	if err != nil {
		return NewExitCodeError(ExitConfig, err)
	}

	opts := []session.Option{session.WithInfo(getInfo(cfg))}
	if cfg.Log.Transcript {
		opts = append(opts, session.WithTranscript(audit.NewLogger(clog.FileWriter(), strconv.Itoa(os.Getpid()))))
	}
	sess := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout := cfg.DialogTimeout()
	if rootFlags.timeout > 0 {
		timeout = time.Duration(rootFlags.timeout) * time.Second
	}
	return withExitCode(serve(ctx, sess, d, timeout))
}

// serve runs the protocol loop in the background and the dialog on the
// calling goroutine. The session error takes precedence.
func serve(ctx context.Context, sess *session.Session, d dialog.Dialog, timeout time.Duration) error {
	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	serveErr := dialog.Serve(ctx, sess, d, dialog.WithDefaultTimeout(timeout))
	if err := <-runErr; err != nil {
		return err
	}
	if errors.Is(serveErr, context.Canceled) {
		return nil
	}
	return serveErr
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return config.Overrides{
		Backend: rootFlags.backend,
		TTY:     rootFlags.ttyName,
		LogFile: rootFlags.logFile,
		Debug:   rootFlags.debug,
	}.Apply(cfg), nil
}

// setupLogging points clog at the configured file. A log file that cannot
// be opened is reported and the session goes on without it.
func setupLogging(cfg *config.Config) {
	if err := clog.Configure(cfg.Log.File, clog.ParseLevel(cfg.Log.Level), false); err != nil {
		clog.Warn("logging to %s disabled: %v", cfg.Log.File, err)
	}
	clog.Debug("pinwarden %s starting, backend %s", version.Version, cfg.Dialog.Backend)
}

// getInfo answers GETINFO queries.
func getInfo(cfg *config.Config) map[string]string {
	return map[string]string{
		"version": version.Short(),
		"flavor":  flavor + ":" + cfg.Dialog.Backend,
		"pid":     strconv.Itoa(os.Getpid()),
		"ttyinfo": orDash(rootFlags.ttyName) + " " + orDash(rootFlags.ttyType) + " " + orDash(rootFlags.display),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
