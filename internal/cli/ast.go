package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lox "go.lox.dev/pkg"
)

// NewASTCommand creates the ast command.
func NewASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <script>",
		Short: "Print the syntax tree of a Lox script as YAML",
		Long: `Print the syntax tree of a Lox script as YAML. for loops appear in
their desugared while form.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			ast, err := lox.ParseReader(f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			if ast.HasErrors() {
				for _, e := range ast.Errors {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
				}

				return fmt.Errorf("%w: %d error(s)", lox.ErrSyntax, len(ast.Errors))
			}

			out, err := lox.DumpAST(ast.Statements)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
