package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calc"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens EXPR",
		Short: "Show how an expression is tokenized and reordered",
		Long: `Print the tokens of an expression with their columns, followed by the
same expression in postfix (reverse Polish) order. A leading minus sign, or one
directly after "(", appears as a subtraction from 0. Put -- before an
expression that starts with a minus sign.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := strings.Join(args, " ")
			e, err := calc.Parse(src)
			if err != nil {
				return fmt.Errorf("%s: %w", calc.KindOf(err), err)
			}
			toks := e.Infix()
			loggerFrom(cmd.Context()).Debug("tokenized", "source", e.Source(), "tokens", len(toks))
			renderTokens(cmd, toks)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "postfix: %v\n", e)
			return nil
		},
	}
}

func renderTokens(cmd *cobra.Command, toks []calc.Token) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Kind", "Text", "Col"})
	for i, tok := range toks {
		t.AppendRow(table.Row{i + 1, tok.Kind.String(), tok.Text, tok.Pos})
	}
	t.Render()
}
