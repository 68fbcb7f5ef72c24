package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/scoperag/internal/adapters/driving/tui"
)

var tuiCorpus string

// isTerminal reports whether fd is an interactive terminal. Tests replace it.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for scoperag.

Type a question, press enter and browse the closest Q&A pairs.

Controls:
  Enter      - Ask / expand answer
  ↑/k, ↓/j   - Navigate results
  n, /       - New question
  +, -       - More or fewer results
  r          - Reload the corpus file
  ?          - Toggle help
  q          - Quit (while browsing results)`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiCorpus, "corpus", "c", "", "corpus file (default from settings)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if !isTerminal(os.Stdin.Fd()) || !isTerminal(os.Stdout.Fd()) {
		return tui.ErrNotTerminal
	}
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	rt, _, err := startRuntime(cmd.Context(), tuiCorpus)
	if err != nil {
		return err
	}
	defer rt.Close()

	app, err := tui.NewApp(tui.NewPorts(rt.retrieval, rt.corpus), rt.settings.Query.DefaultK)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
