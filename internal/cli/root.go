// Package cli provides the command-line interface for lox.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	lox "go.lox.dev/pkg"
)

// Version information (set at build time).
var Version = "0.1.0"

// ErrUsage marks bad arguments or flags.
var ErrUsage = errors.New("usage error")

// Exit codes, following sysexits.h.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
)

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates the root command. With a script argument it runs the
// script, without one it starts the REPL.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "lox [script]",
		Short: "Lox interpreter",
		Long: `lox runs programs written in Lox, a small dynamically typed scripting
language. Without a script it starts an interactive session.`,
		Version: Version,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, err := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("loaded config", slog.String("file", cfg.File))
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runScript(cmd, args[0])
			}

			return startREPL(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./lox.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().String("prompt", "", "REPL prompt")
	rootCmd.PersistentFlags().String("history-file", "", "REPL history file")
	rootCmd.PersistentFlags().Bool("color", true, "Colorize REPL output")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewTokensCommand())
	rootCmd.AddCommand(NewASTCommand())
	rootCmd.AddCommand(NewLLVMCommand())
	rootCmd.AddCommand(NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command with the process arguments. Diagnostics
// for the program itself are already printed by the command, so only other
// failures are reported here.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil && !isReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, ErrUsage) {
			fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		}
	}

	return err
}

func isReported(err error) bool {
	return errors.Is(err, lox.ErrSyntax) || errors.Is(err, lox.ErrRuntime) || errors.Is(err, lox.ErrCompile)
}

// ExitCode maps the result of Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, lox.ErrSyntax), errors.Is(err, lox.ErrCompile):
		return ExitDataErr
	case errors.Is(err, lox.ErrRuntime):
		return ExitSoftware
	default:
		return ExitFailure
	}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}

		return nil
	}
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *Config {
	if c, ok := ctx.Value(configKey{}).(*Config); ok {
		return c
	}

	return DefaultConfig()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.New(slog.DiscardHandler)
}
