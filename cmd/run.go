package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/terminal"
	"github.com/fakeyudi/studio/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run <command line>",
	Short: "Run a command in the simulated terminal",
	Long: "Run one command line in the simulated terminal, e.g. 'studio run git commit -m \"init\"'.\n" +
		"With '-' the command lines are read from stdin and run as one paced batch, the way agent commands run.",
	Args: cobra.MinimumNArgs(1),
	// Everything after "run" belongs to the simulated command line.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
			return cmd.Help()
		}

		engine, err := openEngine()
		if err != nil {
			return err
		}

		if len(args) == 1 && args[0] == "-" {
			lines, err := readCommands(cmd.InOrStdin())
			if err != nil {
				return err
			}
			batch, err := engine.RunScript(lines)
			if err != nil {
				return err
			}
			for _, s := range batch.Steps {
				printStep(cmd.OutOrStdout(), s)
			}
			return nil
		}

		line := strings.Join(args, " ")
		res, err := engine.Run(line)
		if err != nil {
			return err
		}
		printStep(cmd.OutOrStdout(), terminal.Step{Command: line, Result: res})
		return nil
	},
}

// readCommands returns the non-blank lines of r.
func readCommands(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// printStep writes a command and its output the way the terminal tab shows it.
func printStep(w io.Writer, s terminal.Step) {
	fmt.Fprintln(w, tui.Prompt, s.Command)
	for _, line := range s.Result.Output {
		fmt.Fprintln(w, line)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
