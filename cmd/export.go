package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/export"
)

var (
	exportFormat string
	exportName   string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the project as a JSON, Markdown or zip bundle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderer, ext, err := export.RendererFor(exportFormat)
		if err != nil {
			return err
		}
		engine, err := openEngine()
		if err != nil {
			return err
		}
		st := engine.State()

		p := export.NewProject(exportName, st.ID, st.Files, st.Committed, st.Packages, time.Now())
		data, err := renderer.Render(p)
		if err != nil {
			return fmt.Errorf("rendering bundle: %w", err)
		}

		out := exportOut
		if out == "" {
			out = exportName + ext
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing bundle: %w", err)
		}
		cmd.Printf("Exported %d files to %s\n", len(p.Files), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "bundle format: json, markdown or zip")
	exportCmd.Flags().StringVar(&exportName, "name", "project", "project name recorded in the bundle")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default <name>.<ext>)")
	rootCmd.AddCommand(exportCmd)
}
