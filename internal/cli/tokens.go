package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	lox "go.lox.dev/pkg"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <script>",
		Short: "Print the tokens of a Lox script",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			lexer := lox.NewLexer(f)
			tokens, errs := lexer.RunBlocking()
			if err := lexer.Err(); err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			renderTokens(cmd.OutOrStdout(), tokens)

			for _, e := range errs {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
			}
			if len(errs) != 0 {
				return fmt.Errorf("%w: %d error(s)", lox.ErrSyntax, len(errs))
			}

			return nil
		},
	}
}

func renderTokens(w io.Writer, tokens []lox.Token) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"TYPE", "LEXEME", "LITERAL", "LINE"})
	for _, tok := range tokens {
		literal := ""
		if tok.Literal != nil {
			literal = lox.Stringify(tok.Literal)
		}

		t.AppendRow(table.Row{tok.Typ.String(), strconv.Quote(tok.Lexeme), literal, tok.Line})
	}

	t.Render()
}
