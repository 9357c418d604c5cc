package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tonimelisma/gdrive-go/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// dotEnvFile is loaded from the working directory before config resolution.
const dotEnvFile = ".env"

// CLIFlags holds the global persistent flags.
type CLIFlags struct {
	ConfigPath  string
	AccessToken string
	JSON        bool
	Verbose     bool
	Quiet       bool
}

// CLIContext is built once per invocation by the root pre-run and carried on
// the command's context. Subcommands read it via mustCLIContext.
type CLIContext struct {
	Flags  CLIFlags
	Cfg    *config.Resolved
	Logger *slog.Logger
}

type cliContextKey struct{}

func withCLIContext(ctx context.Context, cc *CLIContext) context.Context {
	return context.WithValue(ctx, cliContextKey{}, cc)
}

// mustCLIContext returns the CLIContext installed by the root pre-run.
// Panics if missing, which means a command was run outside newRootCmd.
func mustCLIContext(ctx context.Context) *CLIContext {
	cc, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cc == nil {
		panic("BUG: CLIContext not initialized")
	}

	return cc
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	var flags CLIFlags

	cmd := &cobra.Command{
		Use:     "gdrive-go",
		Short:   "Google Drive CLI client",
		Long:    "A small Google Drive (v2 API) client: authorize, list, download and upload files.",
		Version: version,
		// Errors are printed once by main via exitOnError.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cc, err := loadCLIContext(flags)
			if err != nil {
				return err
			}

			cmd.SetContext(withCLIContext(shutdownContext(cmd.Context(), cc.Logger), cc))

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flags.AccessToken, "access-token", "",
		"use this access token instead of the saved one")
	cmd.PersistentFlags().BoolVar(&flags.JSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress informational output")

	cmd.AddCommand(newAuthURLCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// loadCLIContext resolves the effective configuration from the override chain
// (defaults -> file -> env and .env -> flags) and builds the logger.
func loadCLIContext(flags CLIFlags) (*CLIContext, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	resolved, err := config.Resolve(config.ReadEnvOverrides(), config.CLIOverrides{
		ConfigPath:  flags.ConfigPath,
		AccessToken: flags.AccessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := buildLogger(resolved, flags, os.Stderr, isTerminal(os.Stderr))

	logger.Debug("config resolved",
		slog.String("config_path", resolved.ConfigPath),
		slog.String("token_file", resolved.TokenFile),
	)

	return &CLIContext{Flags: flags, Cfg: resolved, Logger: logger}, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. The config level is the baseline; --verbose and --quiet win.
// The "auto" format picks text on a terminal and JSON otherwise.
func buildLogger(cfg *config.Resolved, flags CLIFlags, w io.Writer, tty bool) *slog.Logger {
	level := slog.LevelInfo
	format := "auto"

	if cfg != nil {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		if cfg.LogFormat != "" {
			format = cfg.LogFormat
		}
	}

	if flags.Verbose {
		level = slog.LevelDebug
	}

	if flags.Quiet {
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if format == "json" || (format == "auto" && !tty) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
