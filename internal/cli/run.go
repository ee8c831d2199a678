package cli

import (
	"github.com/spf13/cobra"

	lox "go.lox.dev/pkg"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Run a Lox script",
		Long: `Run a Lox script. Nothing is executed when the script has syntax
errors; a runtime error stops the script at the failing statement.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args[0])
		},
	}
}

func newRunner(cmd *cobra.Command) *lox.Runner {
	return lox.NewRunner(cmd.OutOrStdout(), cmd.ErrOrStderr(), lox.WithLogger(GetLogger(cmd.Context())))
}

func runScript(cmd *cobra.Command, path string) error {
	return newRunner(cmd).RunFile(cmd.Context(), path)
}
