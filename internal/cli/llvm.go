package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	lox "go.lox.dev/pkg"
)

// NewLLVMCommand creates the llvm command.
func NewLLVMCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "llvm <script>",
		Short: "Compile a Lox script to LLVM IR",
		Long: `Compile a Lox script to textual LLVM IR. The backend infers a static
type for every variable, so scripts that use nil, mix types in one variable
or concatenate strings are rejected.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			compiler := lox.NewCompiler(lox.WithCompilerLogger(GetLogger(cmd.Context())))

			mod, err := compiler.Compile(args[0])
			if err != nil {
				reportDiagnostics(cmd.ErrOrStderr(), err)
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			_, err = fmt.Fprint(w, mod.String())
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the IR to this file instead of stdout")

	return cmd
}

// reportDiagnostics prints every diagnostic joined into a compile result,
// skipping the sentinel that classifies them.
func reportDiagnostics(w io.Writer, err error) {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return
	}

	for _, e := range joined.Unwrap() {
		if errors.Is(e, lox.ErrSyntax) || errors.Is(e, lox.ErrCompile) {
			continue
		}

		_, _ = fmt.Fprintln(w, e.Error())
	}
}
