package interp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephlewis42/pipesh/core/shell"
)

// testRunner returns a runner with captured output streams and no
// usable stdin.
func testRunner() (*Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := &Runner{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	return r, &stdout, &stderr
}

func pipeline(cmds ...shell.Command) *shell.Pipeline {
	return &shell.Pipeline{Cmds: cmds}
}

func TestRunSingleCommand(t *testing.T) {
	r, stdout, stderr := testRunner()

	status, err := r.Run(pipeline(shell.Command{Argv: []string{"echo", "hi"}}))
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Equal(t, "hi\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunEmptyPipeline(t *testing.T) {
	r, _, _ := testRunner()

	status, err := r.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	status, err = r.Run(&shell.Pipeline{})
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}

func TestRunReturnsLastStatus(t *testing.T) {
	r, _, _ := testRunner()

	status, err := r.Run(pipeline(shell.Command{Argv: []string{"sh", "-c", "exit 3"}}))
	require.NoError(t, err)
	assert.Equal(t, 3, status)

	// Only the last command's status counts, never an aggregate.
	status, err = r.Run(pipeline(
		shell.Command{Argv: []string{"sh", "-c", "exit 7"}},
		shell.Command{Argv: []string{"sh", "-c", "exit 5"}},
	))
	require.NoError(t, err)
	assert.Equal(t, 5, status)

	status, err = r.Run(pipeline(
		shell.Command{Argv: []string{"false"}},
		shell.Command{Argv: []string{"true"}},
	))
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}

func TestRunPipelineConnectsStreams(t *testing.T) {
	r, stdout, _ := testRunner()

	status, err := r.Run(pipeline(
		shell.Command{Argv: []string{"echo", "hello world"}},
		shell.Command{Argv: []string{"tr", "a-z", "A-Z"}},
	))
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Equal(t, "HELLO WORLD\n", stdout.String())
}

func TestRunThreeStagePipelineTerminates(t *testing.T) {
	// Requires the parent to close its pipe endpoints before waiting;
	// otherwise the middle cat never sees EOF and this test hangs.
	r, stdout, _ := testRunner()

	status, err := r.Run(pipeline(
		shell.Command{Argv: []string{"echo", "eof check"}},
		shell.Command{Argv: []string{"cat"}},
		shell.Command{Argv: []string{"cat"}},
	))
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Equal(t, "eof check\n", stdout.String())
}

func TestCommandNotFound(t *testing.T) {
	r, _, stderr := testRunner()

	status, err := r.Run(pipeline(
		shell.Command{Argv: []string{"definitely-not-a-real-command-4cb2f"}},
	))
	require.NoError(t, err)

	assert.Equal(t, 127, status)
	assert.Equal(t, MsgCommandNotFound+"\n", stderr.String())
}

func TestCommandNotFoundInPipeline(t *testing.T) {
	r, stdout, stderr := testRunner()

	status, err := r.Run(pipeline(
		shell.Command{Argv: []string{"definitely-not-a-real-command-4cb2f"}},
		shell.Command{Argv: []string{"cat"}},
	))
	require.NoError(t, err)

	// The failure is local to one stage; cat still runs, sees EOF on
	// its pipe, and exits cleanly.
	assert.Equal(t, 0, status)
	assert.Equal(t, MsgCommandNotFoundPipe+"\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestInputRedirection(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(in, []byte("from the file\n"), 0644))

	r, stdout, _ := testRunner()
	status, err := r.Run(pipeline(shell.Command{Argv: []string{"cat"}, InFile: in}))
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Equal(t, "from the file\n", stdout.String())
}

func TestInputFileMissing(t *testing.T) {
	r, stdout, stderr := testRunner()

	status, err := r.Run(pipeline(shell.Command{
		Argv:   []string{"cat"},
		InFile: filepath.Join(t.TempDir(), "no-such-file"),
	}))
	require.NoError(t, err)

	assert.Equal(t, 1, status)
	assert.Equal(t, MsgFileNotFound+"\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestOutputRedirection(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	// The file is created, and truncated on the second run.
	r, stdout, _ := testRunner()
	status, err := r.Run(pipeline(shell.Command{Argv: []string{"echo", "first longer line"}, OutFile: out}))
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	status, err = r.Run(pipeline(shell.Command{Argv: []string{"echo", "second"}, OutFile: out}))
	require.NoError(t, err)
	assert.Equal(t, 0, status)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(content))
	assert.Empty(t, stdout.String())

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestErrorRedirection(t *testing.T) {
	dir := t.TempDir()
	errFile := filepath.Join(dir, "err.log")

	r, _, stderr := testRunner()
	status, err := r.Run(pipeline(shell.Command{
		Argv:    []string{"sh", "-c", "echo oops 1>&2; exit 2"},
		ErrFile: errFile,
	}))
	require.NoError(t, err)

	assert.Equal(t, 2, status)
	assert.Empty(t, stderr.String())

	content, err := os.ReadFile(errFile)
	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(content))
}

func TestNotFoundDiagnosticFollowsErrRedirect(t *testing.T) {
	dir := t.TempDir()
	errFile := filepath.Join(dir, "err.log")

	r, _, stderr := testRunner()
	status, err := r.Run(pipeline(shell.Command{
		Argv:    []string{"definitely-not-a-real-command-4cb2f"},
		ErrFile: errFile,
	}))
	require.NoError(t, err)

	assert.Equal(t, 127, status)
	assert.Empty(t, stderr.String())

	content, err := os.ReadFile(errFile)
	require.NoError(t, err)
	assert.Equal(t, MsgCommandNotFound+"\n", string(content))
}

func TestRedirectionOverridesPipe(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(in, []byte("file wins\n"), 0644))

	r, stdout, _ := testRunner()
	status, err := r.Run(pipeline(
		shell.Command{Argv: []string{"echo", "pipe loses"}},
		shell.Command{Argv: []string{"cat"}, InFile: in},
	))
	require.NoError(t, err)

	// The downstream cat reads the file, not the pipe; the upstream
	// writer may die on a broken pipe but the last status still wins.
	assert.Equal(t, 0, status)
	assert.Equal(t, "file wins\n", stdout.String())
}

func TestParsedPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "words.txt")
	out := filepath.Join(dir, "count.txt")
	require.NoError(t, os.WriteFile(in, []byte("a\nb\nc\n"), 0644))

	p, err := shell.Parse("cat < " + in + " | wc -l > " + out)
	require.NoError(t, err)
	defer p.Release()

	r, stdout, stderr := testRunner()
	status, err := r.Run(p)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "3", strings.TrimSpace(string(content)))
}
