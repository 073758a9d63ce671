package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/logs"
	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/terminal"
	"github.com/fakeyudi/studio/internal/tui"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Open the interactive workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(os.Stdin.Fd()) || !term.IsTerminal(os.Stdout.Fd()) {
			return errors.New("studio term needs an interactive terminal")
		}
		// Text logs would tear the alternate screen; only the journal, if
		// enabled, keeps receiving records.
		logger = logs.New(io.Discard, logLevel, cfg.LogJournal)

		return tui.Run(cmd.Context(), func(onStep func(terminal.Step)) (*session.Engine, error) {
			return openEngine(session.WithStepObserver(onStep))
		})
	},
}

func init() {
	rootCmd.AddCommand(termCmd)
}
