package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/vcs"
)

var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show uncommitted changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		st := engine.State()

		paths := vcs.Diff(st.Files, st.Committed)
		if len(args) == 1 {
			if _, err := st.Files.Get(args[0]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			paths = nil
			if !vcs.Clean(st.Files.Subset(args[0]), st.Committed.Subset(args[0])) {
				paths = []string{args[0]}
			}
		}
		if len(paths) == 0 {
			cmd.Println("No changes.")
			return nil
		}
		for _, p := range paths {
			cmd.Print(vcs.FileDiff(st.Files, st.Committed, p))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
