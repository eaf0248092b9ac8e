// Package cli holds the nncalc command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/nncalc/internal/config"
	"github.com/jask/nncalc/internal/tape"
	"github.com/jask/nncalc/internal/tui"
)

// Version is filled when building with -ldflags, but *not* when installing
// via "go install".
var Version string

// NewRootCmd builds the command tree. Running it without a subcommand starts
// the calculator.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nncalc",
		Short:         "A two-register natural number calculator.",
		Long:          "A terminal calculator over arbitrary-precision natural numbers with top and bottom registers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if GetFlag(cmd, "version") {
				fmt.Fprintln(cmd.OutOrStdout(), "nncalc "+version())
				return nil
			}
			return runCalculator(cmd)
		},
	}
	root.Flags().Bool("version", false, "Report version of this executable")
	root.PersistentFlags().String("config", "", "config file (default $HOME/.config/nncalc/config.toml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	root.PersistentFlags().Bool("no-tape", false, "do not record events to the tape")

	root.AddCommand(newHistoryCmd(), newSessionsCmd(), newKeysCmd(), newConfigCmd())
	return root
}

// Execute runs the command tree and exits non-zero on failure. This is called
// by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// GetFlag gets an expected boolean flag, or panics if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		panic(err)
	}
	return r
}

// GetString gets an expected string flag, or panics if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		panic(err)
	}
	return r
}

// GetInt gets an expected int flag, or panics if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		panic(err)
	}
	return r
}

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "(unknown version)"
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := GetString(cmd, "config")
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func runCalculator(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := config.NewLogger(cfg.Log, GetFlag(cmd, "verbose"))
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logrus.NewEntry(logger)

	bindings, err := loadBindings(cfg)
	if err != nil {
		return err
	}

	opts := tui.Options{Bindings: bindings, Log: log, MaxDigits: cfg.UI.MaxDigits}
	if cfg.Tape.Enabled && !GetFlag(cmd, "no-tape") {
		rec, db, err := openRecorder(ctx, cfg.Tape.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		log.WithField("session", rec.SessionID()).Info("tape session started")
		opts.Tape = rec
	}

	p := tea.NewProgram(tui.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func loadBindings(cfg config.Config) ([]tui.KeyBinding, error) {
	defaults := tui.DefaultKeyBindings()
	byAction, err := config.LoadKeybindings(cfg.UI.Keybindings, tui.DefaultKeybindingsByAction(defaults))
	if err != nil {
		return nil, fmt.Errorf("keybindings: %w", err)
	}
	return tui.ApplyActionKeybindings(defaults, byAction), nil
}

func openRecorder(ctx context.Context, path string) (*tape.Recorder, io.Closer, error) {
	db, err := openTape(path)
	if err != nil {
		return nil, nil, err
	}
	rec, err := tape.NewRecorder(ctx, tape.NewRepo(db))
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("start tape session: %w", err)
	}
	return rec, db, nil
}
