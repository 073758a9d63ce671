package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

var (
	showPlain bool
	showStyle string
)

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print a project file, syntax-highlighted on a terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		f, err := engine.State().Files.Get(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		content := f.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if showPlain || !term.IsTerminal(os.Stdout.Fd()) {
			cmd.Print(content)
			return nil
		}
		return highlight(cmd.OutOrStdout(), content, f.Language, showStyle)
	},
}

// highlight writes source colored for a 256-color terminal. Unknown
// languages fall back to plain text.
func highlight(w io.Writer, source, language, style string) error {
	return quick.Highlight(w, source, language, "terminal256", style)
}

func init() {
	showCmd.Flags().BoolVar(&showPlain, "plain", false, "print without syntax highlighting")
	showCmd.Flags().StringVar(&showStyle, "style", "dracula", "chroma style name")
	rootCmd.AddCommand(showCmd)
}
