package interp

import (
	"fmt"
	"os"
)

// endpoint is one side of an anonymous pipe. Closing is tracked so a
// descriptor that has been handed off can no longer be used or closed
// again; the kernel reuses fd numbers, so a stray second close could
// otherwise hit an unrelated file.
type endpoint struct {
	file   *os.File
	closed bool
}

// File returns the underlying descriptor, or nil once the endpoint has
// been closed.
func (e *endpoint) File() *os.File {
	if e == nil || e.closed {
		return nil
	}
	return e.file
}

// Close releases the endpoint. Extra calls are no-ops.
func (e *endpoint) Close() {
	if e == nil || e.closed {
		return
	}
	e.closed = true
	e.file.Close()
}

// pipePair is one inter-command pipe: the read end feeds the
// downstream command's stdin, the write end receives the upstream
// command's stdout.
type pipePair struct {
	r endpoint
	w endpoint
}

// createPipes opens n anonymous pipes. If any creation fails, every
// pipe opened so far is closed before returning, so no partial pipe
// set survives.
func createPipes(n int) ([]*pipePair, error) {
	pipes := make([]*pipePair, 0, n)
	for i := 0; i < n; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll(pipes)
			return nil, fmt.Errorf("creating pipe %d of %d: %w", i+1, n, err)
		}
		pipes = append(pipes, &pipePair{
			r: endpoint{file: r},
			w: endpoint{file: w},
		})
	}
	return pipes, nil
}

// closeAll closes both ends of every pipe. The parent must do this
// after spawning all children and before waiting: a reader never sees
// end-of-stream while any process still holds the pipe's write end.
func closeAll(pipes []*pipePair) {
	for _, p := range pipes {
		p.r.Close()
		p.w.Close()
	}
}
