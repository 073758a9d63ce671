package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/vcs"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		st := engine.State()

		server := "stopped"
		if st.Server != "" {
			server = st.Server + " (running)"
		}
		packages := "(none)"
		if len(st.Packages) > 0 {
			packages = strings.Join(st.Packages, ", ")
		}
		rows := pterm.TableData{
			{"Session", st.ID},
			{"Files", fmt.Sprint(len(st.Files))},
			{"Uncommitted", fmt.Sprint(len(vcs.Diff(st.Files, st.Committed)))},
			{"Packages", packages},
			{"Server", server},
			{"Requests", fmt.Sprint(st.Usage)},
		}
		table, err := pterm.DefaultTable.WithData(rows).Srender()
		if err != nil {
			return err
		}
		cmd.Println(table)

		if st.Roadmap != nil {
			cmd.Println()
			cmd.Println("Roadmap:")
			cmd.Println(st.Roadmap.Checklist())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
