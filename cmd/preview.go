package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/preview"
	"github.com/fakeyudi/studio/internal/session"
)

var (
	previewOut   string
	previewWatch bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Compile the live preview into a standalone HTML file",
	Long: "Compile the live preview into a standalone HTML file with local stylesheets and scripts inlined.\n" +
		"While a server is running the preview shows the files captured when it started.\n" +
		"With --watch the file is rewritten whenever the session changes, until interrupted.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := previewOut
		if out == "" {
			out = cfg.PreviewOut
		}
		id, store, err := currentStore()
		if err != nil {
			return err
		}

		var last string
		write := func() error {
			st, err := session.LoadState(store, id)
			if err != nil {
				return err
			}
			doc := preview.Compile(st.PreviewFiles())
			if h := preview.Hash(doc); h != last {
				if err := os.WriteFile(out, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("writing preview: %w", err)
				}
				last = h
				logger.Debug("preview written", "path", out, "hash", h)
			}
			return nil
		}

		if err := write(); err != nil {
			return err
		}
		cmd.Printf("Preview written to %s\n", out)
		if !previewWatch {
			return nil
		}

		cmd.Println("Watching for changes (Ctrl+C to stop)...")
		return preview.Watch(cmd.Context(), func() {
			if err := write(); err != nil {
				logger.Warn("preview update failed", "err", err)
			}
		}, store.Path(session.KeyFiles), store.Path(session.KeyServer))
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "output", "o", "", "output file (default from config preview_out)")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "rewrite the preview whenever the session changes")
	rootCmd.AddCommand(previewCmd)
}
