package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/export"
	"github.com/fakeyudi/studio/internal/importer"
	"github.com/fakeyudi/studio/internal/session"
	"github.com/fakeyudi/studio/internal/vfs"
)

var importNew bool

var importCmd = &cobra.Command{
	Use:   "import <folder|bundle>",
	Short: "Replace the project with a local folder or an exported bundle",
	Long: "Replace the project with the text files of a local folder, or with the files of a\n" +
		"bundle written by 'studio export'. The commit baseline, packages, roadmap, server and\n" +
		"chat are reset. A new session is created when none is current or with --new.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := readProject(cmd, args[0])
		if err != nil {
			return err
		}

		_, err = session.CurrentID()
		if importNew || errors.Is(err, session.ErrNoSession) {
			id := uuid.New().String()
			if err := createSession(id, session.NewState(id, files)); err != nil {
				return err
			}
			cmd.Printf("Session %s started with %d imported files.\n", id, len(files))
			return nil
		}
		if err != nil {
			return err
		}

		engine, err := openEngine()
		if err != nil {
			return err
		}
		if err := engine.Load(files); err != nil {
			return err
		}
		cmd.Printf("Imported %d files.\n", len(files))
		return nil
	},
}

// readProject loads files from a folder or a bundle, printing any import
// warnings.
func readProject(cmd *cobra.Command, path string) (vfs.Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}

	if info.IsDir() {
		res, err := (&importer.Folder{Root: path}).Import(cmd.Context())
		if err != nil {
			return nil, err
		}
		for _, w := range res.Warnings {
			cmd.PrintErrln("warning:", w)
		}
		return res.Files, nil
	}

	parser, err := export.ParserFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(p.Files) == 0 {
		return nil, fmt.Errorf("importing %s: %w", path, importer.ErrEmpty)
	}
	return p.Files, nil
}

func init() {
	importCmd.Flags().BoolVar(&importNew, "new", false, "always start a new session")
	rootCmd.AddCommand(importCmd)
}
