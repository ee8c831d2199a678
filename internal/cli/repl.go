package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	lox "go.lox.dev/pkg"
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// LineReader is the part of *readline.Instance the REPL needs.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

func startREPL(cmd *cobra.Command) error {
	cfg := GetConfig(cmd.Context())

	prompt := cfg.Prompt
	if cfg.Color {
		prompt = promptStyle.Render(prompt)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return runREPL(cmd.Context(), rl, newREPLSession(cmd, cfg.Color))
}

// replSession is one interactive session. All lines share one runner, so
// globals declared on one line are visible on the next.
type replSession struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	runner *lox.Runner
}

func newREPLSession(cmd *cobra.Command, color bool) *replSession {
	errOut := cmd.ErrOrStderr()
	if color {
		errOut = styledWriter{w: errOut, style: errorStyle}
	}

	return &replSession{
		out:    cmd.OutOrStdout(),
		errOut: errOut,
		color:  color,
		runner: lox.NewRunner(cmd.OutOrStdout(), errOut, lox.WithLogger(GetLogger(cmd.Context()))),
	}
}

func (s *replSession) hint(text string) string {
	if s.color {
		return hintStyle.Render(text)
	}

	return text
}

// runREPL reads lines until EOF or a quit command. Syntax and runtime errors
// are reported and the session goes on.
func runREPL(ctx context.Context, rl LineReader, s *replSession) error {
	_, _ = fmt.Fprintln(s.out, s.hint("Lox "+Version+". Type .help for commands, .quit to exit"))

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := s.dotCommand(line); quit {
				return nil
			}
			continue
		}

		if err := s.runner.Run(ctx, line); err != nil && !isReported(err) {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
	}
}

// dotCommand handles a REPL command and reports whether the session ends.
func (s *replSession) dotCommand(line string) bool {
	switch command := strings.ToLower(strings.Fields(line)[0]); command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.out)
	case ".env":
		globals := s.runner.Interpreter().Globals()
		for _, name := range globals.Names() {
			v, _ := globals.Get(lox.Token{Typ: lox.TokenIdentifier, Lexeme: name})
			_, _ = fmt.Fprintf(s.out, "%s = %s\n", name, lox.Stringify(v))
		}
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .env            List global variables
  .quit / .exit   Exit the REPL

Each line is run as a complete program. Variables declared at the top
level stay defined for the rest of the session.
`
	_, _ = fmt.Fprintln(w, help)
}

func newCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".env"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}

	return readline.NewPrefixCompleter(items...)
}

// styledWriter renders every write with style, one line at a time so
// lipgloss does not pad short lines to the width of the longest. Trailing
// newlines stay outside the styled text.
type styledWriter struct {
	w     io.Writer
	style lipgloss.Style
}

func (s styledWriter) Write(p []byte) (int, error) {
	text := string(p)
	trimmed := strings.TrimRight(text, "\n")

	lines := strings.Split(trimmed, "\n")
	for i, line := range lines {
		lines[i] = s.style.Render(line)
	}

	_, err := io.WriteString(s.w, strings.Join(lines, "\n")+text[len(trimmed):])
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
