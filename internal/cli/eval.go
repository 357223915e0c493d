package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/cli/config"
)

// errFailed reports that at least one expression failed to evaluate. The
// failures themselves have already been printed.
var errFailed = errors.New("some expressions failed")

func runEval(cmd *cobra.Command, args []string, inFile string) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	logger := loggerFrom(ctx)

	if len(args) > 0 {
		return evalAll(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger, args)
	}

	var in io.Reader
	switch {
	case inFile != "" && inFile != "-":
		f, err := os.Open(inFile)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	case inFile == "-" || !isTerminal(cmd.InOrStdin()):
		in = cmd.InOrStdin()
	default:
		return runREPL(cmd, cfg, logger)
	}

	var srcs []string
	scan := bufio.NewScanner(in)
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		srcs = append(srcs, line)
	}
	if err := scan.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return evalAll(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger, srcs)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// evalAll evaluates each expression, printing results to out and failures to
// errs. Evaluation continues past failures.
func evalAll(out, errs io.Writer, cfg *config.Config, logger *slog.Logger, srcs []string) error {
	failed := 0
	for _, src := range srcs {
		e, err := calc.Parse(src)
		if err == nil {
			var r float64
			r, err = e.Eval()
			if err == nil {
				logger.Debug("evaluated", slog.String("expr", src), slog.String("postfix", e.String()), slog.Float64("result", r))
				if cfg.Echo {
					_, _ = fmt.Fprintf(out, "%v : ", e)
				}
				_, _ = fmt.Fprintln(out, formatResult(cfg, r))
				continue
			}
		}
		failed++
		logger.Debug("evaluation failed", slog.String("expr", src), slog.String("kind", calc.KindOf(err).String()))
		_, _ = fmt.Fprintf(errs, "%s: %v\n", calc.KindOf(err), err)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFailed, failed, len(srcs))
	}
	return nil
}

// formatResult formats r with the configured verb, or in plain decimal.
func formatResult(cfg *config.Config, r float64) string {
	if cfg.Format == "" {
		return calc.Format(r)
	}
	return fmt.Sprintf(cfg.Format, r)
}
