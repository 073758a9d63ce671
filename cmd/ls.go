package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/templates"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List built-in templates and stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := pterm.TableData{{"Template", "Name", "Description"}}
		for _, t := range templates.List() {
			rows = append(rows, []string{t.ID, t.Name, t.Description})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
		if err != nil {
			return err
		}
		cmd.Println(table)
		cmd.Println()

		ids, err := session.List()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			cmd.Println("no sessions")
			return nil
		}
		current, err := session.CurrentID()
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			return err
		}
		cmd.Println("Sessions:")
		for _, id := range ids {
			marker := " "
			if id == current {
				marker = "*"
			}
			cmd.Printf("%s %s\n", marker, id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
