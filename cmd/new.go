package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/templates"
)

var newCmd = &cobra.Command{
	Use:   "new [template]",
	Short: "Start a new session from a built-in template",
	Long: "Start a new session from a built-in template and make it current.\n" +
		"Without an argument the configured template is used; see 'studio ls' for the catalog.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := cfg.Template
		if len(args) == 1 {
			name = args[0]
		}
		files, err := templates.Load(name)
		if err != nil {
			return err
		}

		id := uuid.New().String()
		if err := createSession(id, session.NewState(id, files)); err != nil {
			return err
		}
		cmd.Printf("Session %s started from %s (%d files).\n", id, name, len(files))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
