package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/x/term"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/studio/internal/config"
	"github.com/fakeyudi/studio/internal/generator"
	"github.com/fakeyudi/studio/internal/logs"
	"github.com/fakeyudi/studio/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var (
	logLevel slog.Level
	logger   = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// scriptPath replaces the model with a file of canned responses.
var scriptPath string

var rootCmd = &cobra.Command{
	Use:          "studio",
	Short:        "Chat with an AI agent that edits, runs and previews a virtual project",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is the common case.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = c

		logLevel, err = logs.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = logs.New(cmd.ErrOrStderr(), logLevel, cfg.LogJournal)

		if !term.IsTerminal(os.Stdout.Fd()) {
			pterm.DisableStyling()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scriptPath, "script", "", "replay model responses from a JSON file instead of calling the API")
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// cmd.Print* writes to stderr unless an output is set.
	rootCmd.SetOut(os.Stdout)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newGenerator() (generator.Generator, error) {
	if scriptPath != "" {
		return generator.LoadScript(scriptPath)
	}
	return &generator.Gemini{APIKey: cfg.APIKey, Model: cfg.Model, Temperature: cfg.Temperature}, nil
}

// currentStore opens the store of the current session.
func currentStore() (string, session.Store, error) {
	id, err := session.CurrentID()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", nil, fmt.Errorf("%w: run 'studio new' to create one", err)
		}
		return "", nil, err
	}
	store, err := session.NewStore(id)
	if err != nil {
		return "", nil, err
	}
	return id, store, nil
}

// openEngine opens the current session with the configured generator,
// logger and command pacing. opts are applied last.
func openEngine(opts ...session.Option) (*session.Engine, error) {
	id, store, err := currentStore()
	if err != nil {
		return nil, err
	}
	gen, err := newGenerator()
	if err != nil {
		return nil, err
	}
	base := []session.Option{
		session.WithGenerator(gen),
		session.WithLogger(logger),
		session.WithCommandDelay(cfg.CommandDelay),
	}
	return session.Open(store, id, append(base, opts...)...)
}

// createSession stores a fresh session over files and makes it current.
func createSession(id string, st session.State) error {
	store, err := session.NewStore(id)
	if err != nil {
		return err
	}
	if err := session.SaveState(store, st); err != nil {
		return err
	}
	if err := session.SetCurrent(id); err != nil {
		return err
	}
	logger.Info("session created", "session", id, "files", len(st.Files))
	return nil
}
