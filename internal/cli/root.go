// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/backend"
	"github.com/jeranaias/cerebrum-tui/internal/config"
	"github.com/jeranaias/cerebrum-tui/internal/logging"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/session"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// reportedError marks an error the command has already printed.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

type rootFlags struct {
	configPath string
	baseURL    string
	debug      bool
	jsonOutput bool

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootFlags{})
}

func newRootCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cerebrum",
		Short: "Terminal client for the Cerebrum notes and chat backend",
		Long: `cerebrum is a terminal client for a Cerebrum backend: chat with your
knowledge base, edit markdown notes and upload PDFs for processing.

Run without a subcommand to start the interactive UI.`,
		Example: `  cerebrum
  cerebrum --url http://10.0.0.5:8000
  cerebrum chat "summarize lecture 3"
  cerebrum files upload slides.pdf`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return flags.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, flags)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to a config file (default: ~/.cerebrum/config.toml)")
	pf.StringVarP(&flags.baseURL, "url", "u", "", "Backend base URL (overrides backend.base_url)")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "Log at debug level")
	pf.BoolVar(&flags.jsonOutput, "json", false, "Print machine-readable JSON")

	cmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "advanced", Title: "Advanced Commands:"})

	cmd.AddCommand(newChatCmd(flags))
	cmd.AddCommand(newNotesCmd(flags))
	cmd.AddCommand(newFilesCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newLogsCmd(flags))
	cmd.AddCommand(newDevServerCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args ...string) error {
	var flags rootFlags
	defer flags.teardown()

	rootCmd := newRootCmd(&flags)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return processErr(ctx, err, stderr, rootCmd)
	}
	return nil
}

func processErr(ctx context.Context, err error, stderr io.Writer, rootCmd *cobra.Command) error {
	var reported reportedError
	switch {
	case errors.As(err, &reported):
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
	default:
		NewPrinter(stderr).Error(err)
		if strings.HasPrefix(err.Error(), "unknown command ") || strings.HasPrefix(err.Error(), "accepts ") {
			fmt.Fprintln(stderr)
			_ = rootCmd.Usage()
		}
	}
	return err
}

// =============================================================================
// SETUP
// =============================================================================

// setup loads .env and the config, then builds the logger. The TUI gets
// a file-only logger; other commands also log warnings to stderr.
func (f *rootFlags) setup(cmd *cobra.Command) error {
	setupColors()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var cfg *config.Config
	var err error
	switch {
	case f.configPath != "" && !fileExists(f.configPath):
		// config init and config set create the file.
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
	case f.configPath != "":
		if cfg, err = config.LoadFromPath(f.configPath); err != nil {
			return err
		}
	default:
		cfg, err = config.Load()
		if cfg == nil {
			return err
		}
		if err != nil {
			NewPrinter(cmd.ErrOrStderr()).Warn("%v (using defaults)", err)
		}
	}

	if f.baseURL != "" {
		cfg.Backend.BaseURL = f.baseURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if f.debug {
		cfg.Logging.Level = "debug"
	}
	f.cfg = cfg

	opts := logging.FromConfig(cfg.Logging)
	if cmd.HasParent() {
		opts.Console = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.New(opts)
	if err != nil {
		NewPrinter(cmd.ErrOrStderr()).Warn("logging disabled: %v", err)
		logger, closeLog = zap.NewNop(), func() error { return nil }
	}
	f.logger = logger.With(zap.String("command", cmd.CommandPath()))
	f.closeLog = closeLog
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *rootFlags) teardown() {
	if f.closeLog != nil {
		_ = f.closeLog()
		f.closeLog = nil
	}
}

// client builds a backend client from the loaded config.
func (f *rootFlags) client() *backend.Client {
	b := f.cfg.Backend
	return backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:           b.BaseURL,
		Timeout:           b.Timeout(),
		UploadTimeout:     b.UploadTimeout(),
		RequestsPerSecond: b.RequestsPerSecond,
	}).WithLogger(f.logger)
}

// session builds a session over a fresh client. Alerts go to stderr
// unless a notifier is given.
func (f *rootFlags) session(cmd *cobra.Command, notifier prompt.Notifier, confirmer prompt.Confirmer) (*session.Session, *backend.Client, error) {
	if notifier == nil {
		notifier = &prompt.Terminal{Out: cmd.ErrOrStderr(), In: cmd.InOrStdin()}
	}
	client := f.client()
	sess, err := session.New(client, session.Options{
		Config:    f.cfg,
		Notifier:  notifier,
		Confirmer: confirmer,
		Logger:    f.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return sess, client, nil
}
