package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/nncalc/internal/tape"
	"github.com/jask/nncalc/internal/tui"
)

func openTape(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir tape dir: %w", err)
	}
	if err := tape.Migrate(path); err != nil {
		return nil, fmt.Errorf("migrate tape: %w", err)
	}
	db, err := tape.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tape: %w", err)
	}
	return db, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print recorded events.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openTape(cfg.Tape.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := tape.NewRepo(db)
			var entries []tape.Entry
			if id := GetString(cmd, "session"); id != "" {
				entries, err = repo.Session(cmd.Context(), id)
			} else {
				entries, err = repo.Recent(cmd.Context(), GetInt(cmd, "limit"))
			}
			if err != nil {
				return fmt.Errorf("read tape: %w", err)
			}
			return writeEntries(cmd, entries)
		},
	}
	cmd.Flags().Int("limit", 20, "number of most recent entries to print")
	cmd.Flags().String("session", "", "print every entry of one session")
	return cmd
}

func writeEntries(cmd *cobra.Command, entries []tape.Entry) error {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "no entries")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSEQ\tTIME\tEVENT\tTOP\tBOTTOM")
	for _, e := range entries {
		event := e.Event
		if e.Digit != nil {
			event = fmt.Sprintf("%s(%d)", e.Event, *e.Digit)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			shortID(e.SessionID), e.Seq, e.CreatedAt.Local().Format(time.DateTime), event, e.Top, e.Bottom)
	}
	return w.Flush()
}

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openTape(cfg.Tape.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			sessions, err := tape.NewRepo(db).Sessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("read tape: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "no sessions")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tSTARTED\tENTRIES")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%d\n", s.ID, s.StartedAt.Local().Format(time.DateTime), s.Entries)
			}
			return w.Flush()
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the effective keybindings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			bindings, err := loadBindings(cfg)
			if err != nil {
				return err
			}
			return writeBindings(cmd, bindings)
		},
	}
}

func writeBindings(cmd *cobra.Command, bindings []tui.KeyBinding) error {
	sorted := tui.NewKeyRegistry(bindings).Bindings()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Action < sorted[j].Action })
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tKEYS")
	for _, b := range sorted {
		fmt.Fprintf(w, "%s\t%s\n", b.Action, strings.Join(b.Keys, ", "))
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
