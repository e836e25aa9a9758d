// Package cli wires the store, the saved state and the terminal UI behind a
// cobra command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/tracker"
	"github.com/sadopc/workhours/internal/tui"
	"github.com/spf13/cobra"
)

// env is shared by all commands once the store is open.
type env struct {
	dbPath  string
	verbose bool

	store  *store.Store
	prefs  tracker.Prefs
	logger *slog.Logger
	closer func()
}

// newRootCmd creates the top-level "workhours" command. The caller closes
// the returned env once the command has run, whatever its outcome.
func newRootCmd() (*cobra.Command, *env) {
	e := &env{}

	root := &cobra.Command{
		Use:   "workhours",
		Short: "Track worked hours against a weekly target",
		Long: `workhours records start/end intervals per weekday and shows how far the
week is from its target. Without a subcommand it opens the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return runSummary(cmd, e)
			}
			return runTUI(e)
		},
	}

	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "database path (default $WORKHOURS_DB or ~/.config/workhours/workhours.db)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSummaryCmd(e),
		newExportCmd(e),
		newResetCmd(e),
	)
	return root, e
}

// Execute is the entry point called from main.
func Execute() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func execute(args []string, out, errOut io.Writer) error {
	root, e := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return runRoot(root, e)
}

// runRoot closes the store and log file even when a command fails, which
// cobra's post-run hooks skip.
func runRoot(root *cobra.Command, e *env) error {
	defer e.close()
	return root.Execute()
}

func (e *env) open(cmd *cobra.Command) error {
	if e.dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("finding database path: %w", err)
		}
		e.dbPath = p
	}

	s, err := store.New(e.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	e.store = s

	level := slog.LevelInfo
	if e.verbose {
		level = slog.LevelDebug
	}

	// The TUI owns the terminal, so it logs next to the database instead.
	var w io.Writer = cmd.ErrOrStderr()
	closers := []func(){func() { s.Close() }}
	if cmd.Parent() == nil && isTerminal(cmd.OutOrStdout()) {
		f, err := os.OpenFile(filepath.Join(filepath.Dir(e.dbPath), "workhours.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			w = io.Discard
		} else {
			w = f
			closers = append(closers, func() { f.Close() })
		}
	}
	e.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	e.closer = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	e.prefs = tracker.LoadPrefs(s)
	e.logger.Debug("store opened", slog.String("db", e.dbPath))
	return nil
}

func (e *env) close() {
	if e.closer != nil {
		e.closer()
		e.closer = nil
	}
}

func (e *env) load() *tracker.State {
	return tracker.Load(e.store, e.prefs, e.logger)
}

func runTUI(e *env) error {
	st := e.load()
	app := tui.NewApp(e.store, st, e.logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, runErr := p.Run()

	// Saved on every exit path, including ctrl+c.
	if err := st.Save(e.store); err != nil {
		e.logger.Error("saving state on exit failed", slog.String("error", err.Error()))
		if runErr == nil {
			return err
		}
	}
	e.logger.Info("state saved", slog.Int("undo_entries", st.History.Len()))
	return runErr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
