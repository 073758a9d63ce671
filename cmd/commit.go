package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/session"
)

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit -m <message>",
	Short: "Snapshot the working tree as the committed version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		id, changed, err := engine.Commit(commitMessage)
		if errors.Is(err, session.ErrNothingToCommit) {
			cmd.Println(err.Error())
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Printf("[main %s] %s\n", id, commitMessage)
		cmd.Printf(" %d file(s) changed\n", len(changed))
		return nil
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard <path>",
	Short: "Restore a file to its committed version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := openEngine()
		if err != nil {
			return err
		}
		restored, err := engine.Discard(args[0])
		if err != nil {
			return err
		}
		if !restored {
			cmd.Printf("%s has no committed version; nothing to discard.\n", args[0])
			return nil
		}
		cmd.Printf("Discarded changes to %s.\n", args[0])
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(discardCmd)
}
