// Package interp runs validated pipelines as real OS processes,
// wiring adjacent commands together with anonymous pipes and applying
// per-command file redirections.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/josephlewis42/pipesh/core/shell"
)

// Fixed diagnostics for a command that could not be located or
// launched. External tools match on these strings verbatim.
const (
	MsgCommandNotFound     = "Command not found."
	MsgCommandNotFoundPipe = "Command not found in pipe sequence."
)

// notFoundStatus is the conventional shell exit status for a command
// that could not be found, matching bash and dash.
const notFoundStatus = 127

// Runner executes pipelines against the host OS. The zero value is
// not usable; NewRunner binds the runner's streams to the process
// defaults.
type Runner struct {
	// Stdin, Stdout and Stderr are the streams a stage inherits when
	// neither a pipe nor an explicit redirection claims them.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the environment for spawned commands, "key=value" pairs.
	// nil inherits the runner's own environment. Command lookup uses
	// the ambient search path, so bare names and path-qualified names
	// work uniformly.
	Env []string

	// Dir is the working directory for spawned commands. Empty means
	// the runner's own working directory.
	Dir string
}

// NewRunner returns a Runner bound to the process's own standard
// streams and environment.
func NewRunner() *Runner {
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// stage is one pipeline command after the spawn phase: either a
// running process or a synthesized failure status for a stage that
// never started.
type stage struct {
	cmd    *exec.Cmd
	status int // used when cmd is nil
}

// Run executes the pipeline to completion and returns the exit status
// of its last command, the same convention real shells use for $?.
//
// Failures inside one stage (a missing redirection file, a command
// that cannot be found) terminate only that stage; its siblings run
// and every spawned process is reaped. A non-nil error is returned
// only for orchestration failures in the parent: pipe creation or
// process creation system calls. Status is -1 in that case.
func (r *Runner) Run(p *shell.Pipeline) (int, error) {
	if p == nil || len(p.Cmds) == 0 {
		return 0, nil
	}

	n := len(p.Cmds)
	pipes, err := createPipes(n - 1)
	if err != nil {
		return -1, err
	}

	stages := make([]*stage, 0, n)
	var spawnErr error
	for i := range p.Cmds {
		st, err := r.spawn(i, n, &p.Cmds[i], pipes)
		if err != nil {
			spawnErr = err
			break
		}
		stages = append(stages, st)
	}

	// The parent's pipe endpoints are released before waiting whether
	// or not the spawn loop completed. Holding a write end open here
	// would keep a reader child from ever seeing end-of-stream.
	closeAll(pipes)

	last := 0
	for i, st := range stages {
		status := st.wait()
		if i == n-1 {
			last = status
		}
	}

	if spawnErr != nil {
		return -1, spawnErr
	}
	return last, nil
}

// spawn starts pipeline stage i of n. A stage-local failure returns a
// synthesized stage and a nil error; only parent-side system call
// failures return an error.
func (r *Runner) spawn(i, n int, cmd *shell.Command, pipes []*pipePair) (*stage, error) {
	s := &stdio{in: r.Stdin, out: r.Stdout, err: r.Stderr}

	// Pipe wiring by pipeline position. This happens strictly before
	// explicit redirections so that "<" and ">" win over a pipe on the
	// same stream.
	if i > 0 {
		s.in = pipes[i-1].r.File()
	}
	if i < n-1 {
		s.out = pipes[i].w.File()
	}

	if err := applyRedirections(cmd, s); err != nil {
		// Diagnostic already written to the stage's stderr.
		s.close()
		return &stage{status: 1}, nil
	}

	proc := exec.Command(cmd.Argv[0], cmd.Argv[1:]...)
	proc.Stdin = s.in
	proc.Stdout = s.out
	proc.Stderr = s.err
	proc.Env = r.Env
	proc.Dir = r.Dir

	if err := proc.Start(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			// The program could not be located or launched. The
			// diagnostic goes to the stage's stderr binding so a "2>"
			// on the same command captures it.
			msg := MsgCommandNotFound
			if n > 1 {
				msg = MsgCommandNotFoundPipe
			}
			fmt.Fprintln(s.err, msg)
			s.close()
			return &stage{status: notFoundStatus}, nil
		}
		s.close()
		return nil, fmt.Errorf("starting %s: %w", cmd.Argv[0], err)
	}

	// The child owns its inherited descriptors now; drop the parent's
	// copies of any redirection files.
	s.close()
	return &stage{cmd: proc}, nil
}

// wait reaps the stage and maps its termination to a shell status. A
// stage killed by a signal counts as a plain failure.
func (st *stage) wait() int {
	if st.cmd == nil {
		return st.status
	}

	err := st.cmd.Wait()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
		return 1
	}
	return 1
}
