package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/roadmap"
	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/terminal"
)

var chatCmd = &cobra.Command{
	Use:   "chat <prompt>",
	Short: "Send a prompt to the agent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.TrimSpace(strings.Join(args, " "))
		if prompt == "" {
			return errors.New("empty prompt")
		}
		return converse(cmd, func(ctx context.Context, e *session.Engine) (session.Turn, error) {
			return e.Send(ctx, prompt)
		})
	},
}

var proceedCmd = &cobra.Command{
	Use:   "proceed",
	Short: "Execute the current step of the active roadmap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return converse(cmd, func(ctx context.Context, e *session.Engine) (session.Turn, error) {
			return e.Proceed(ctx)
		})
	},
}

// converse runs one chat turn, streaming agent commands as they execute and
// showing a spinner while the model is thinking.
func converse(cmd *cobra.Command, turn func(context.Context, *session.Engine) (session.Turn, error)) error {
	var spinner *pterm.SpinnerPrinter
	stopSpinner := func() {
		if spinner != nil {
			_ = spinner.Stop()
			spinner = nil
		}
	}
	defer stopSpinner()

	engine, err := openEngine(session.WithStepObserver(func(s terminal.Step) {
		stopSpinner()
		printStep(cmd.OutOrStdout(), s)
	}))
	if err != nil {
		return err
	}

	if term.IsTerminal(os.Stdout.Fd()) {
		spinner, _ = pterm.DefaultSpinner.WithRemoveWhenDone().Start("Thinking...")
	}
	t, err := turn(cmd.Context(), engine)
	stopSpinner()
	if err != nil {
		return err
	}

	cmd.Println(t.Reply)
	for _, p := range t.Updated {
		cmd.Printf("  updated %s\n", p)
	}
	switch t.Roadmap {
	case roadmap.EventPlanned, roadmap.EventAdvanced:
		cmd.Println()
		cmd.Println(engine.State().Roadmap.Checklist())
		cmd.Println("Run 'studio proceed' to execute the next step.")
	case roadmap.EventCompleted:
		cmd.Println("Roadmap complete.")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(proceedCmd)
}
