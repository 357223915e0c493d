// Package cli provides the command-line interface for calc.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc/internal/cli/config"
)

// Version is the program version (set at build time).
var Version = "0.1.0"

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile, inFile string
	root := &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Evaluate arithmetic expressions",
		Long: `calc evaluates arithmetic with + - * /, parentheses, and a postfix %.

Each argument is evaluated as a separate expression. With no arguments, calc
reads one expression per line from --in or standard input, or starts an
interactive calculator when standard input is a terminal. Put -- before
arguments that start with a minus sign.`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				logger.Debug("using config file", slog.String("path", cfg.File))
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, inFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./calc.yaml)")
	pf.String("format", "", "fmt verb for printing results, e.g. %.3f")
	pf.Bool("echo", false, "print each expression in postfix form before its result")
	pf.String("prompt", "", "interactive prompt")
	pf.String("history-file", "", "interactive history file")
	pf.Bool("color", true, "styled interactive output")
	pf.BoolP("verbose", "v", false, "debug logging to stderr")
	root.Flags().StringVar(&inFile, "in", "", "input file with one expression per line (- for stdin)")

	root.AddCommand(newTokensCmd())
	root.AddCommand(newVersionCmd(Version))
	return root
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// configFrom returns the config stored by the root command, or defaults if
// there is none.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{Prompt: config.DefaultPrompt}
}

// loggerFrom returns the logger stored by the root command, or one which
// discards everything.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}
