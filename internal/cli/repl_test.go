package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines, then reports EOF. A nil entry stands for ^C.
type scriptedReader struct {
	lines []*string
}

func lines(ls ...string) *scriptedReader {
	r := &scriptedReader{}
	for i := range ls {
		if ls[i] == "^C" {
			r.lines = append(r.lines, nil)
			continue
		}
		r.lines = append(r.lines, &ls[i])
	}

	return r
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}

	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == nil {
		return "", readline.ErrInterrupt
	}

	return *line, nil
}

func (r *scriptedReader) Close() error {
	return nil
}

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetContext(context.Background())

	return newREPLSession(cmd, false), &stdout, &stderr
}

func TestREPL(t *testing.T) {
	s, stdout, stderr := newTestSession(t)

	rl := lines(
		"var a = 1;",
		"",
		"print a + 1;",
		"^C",
		"print b;",
		"print",
		"var s = \"str\";",
		".env",
		".bogus",
		".quit",
		"print 99;",
	)
	require.NoError(t, runREPL(context.Background(), rl, s))

	assert.Contains(t, stdout.String(), "Type .help for commands")
	assert.Contains(t, stdout.String(), "2\n")
	assert.Contains(t, stdout.String(), "a = 1\ns = str\n")
	assert.NotContains(t, stdout.String(), "99", "nothing runs after .quit")

	assert.Equal(t, "Undefined variable 'b'.\n[line 1]\n"+
		"line[1] Error at end: Expect expression.\n"+
		"Unknown command: .bogus (type .help for commands)\n", stderr.String())
}

func TestREPLEndsOnEOF(t *testing.T) {
	s, stdout, _ := newTestSession(t)

	require.NoError(t, runREPL(context.Background(), lines("print \"last\";"), s))
	assert.Contains(t, stdout.String(), "last\n")
}

func TestREPLHelp(t *testing.T) {
	s, stdout, _ := newTestSession(t)

	require.NoError(t, runREPL(context.Background(), lines(".HELP", ".exit"), s))
	assert.Contains(t, stdout.String(), ".env")
	assert.Contains(t, stdout.String(), ".quit / .exit")
}

type failingReader struct{}

func (failingReader) Readline() (string, error) { return "", errors.New("terminal gone") }
func (failingReader) Close() error              { return nil }

func TestREPLReaderError(t *testing.T) {
	s, _, _ := newTestSession(t)

	assert.EqualError(t, runREPL(context.Background(), failingReader{}, s), "terminal gone")
}

func TestStyledWriter(t *testing.T) {
	var buf bytes.Buffer
	w := styledWriter{w: &buf, style: lipgloss.NewStyle()}

	n, err := w.Write([]byte("oops\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "oops\n", buf.String())
}

func TestStyledWriterMultiLine(t *testing.T) {
	var buf bytes.Buffer
	w := styledWriter{w: &buf, style: lipgloss.NewStyle()}

	report := "Operand must be a number.\n[line 1]\n"
	n, err := w.Write([]byte(report))
	require.NoError(t, err)
	assert.Equal(t, len(report), n)
	assert.Equal(t, report, buf.String(), "short lines are not padded")
}
