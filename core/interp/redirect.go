package interp

import (
	"fmt"
	"io"
	"os"

	"github.com/josephlewis42/pipesh/core/shell"
)

// MsgFileNotFound is the fixed diagnostic for a missing input
// redirection file. External tools match on it verbatim.
const MsgFileNotFound = "File not found."

// outFileMode matches the conventional rw-r--r-- for files created by
// ">" and "2>".
const outFileMode = 0644

// stdio holds the resolved standard stream bindings for one stage,
// plus the files the parent must close once the stage owns them.
type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer

	opened []*os.File
}

// close releases the parent's copies of redirection files. The spawned
// process keeps its own inherited descriptors.
func (s *stdio) close() {
	for _, f := range s.opened {
		f.Close()
	}
	s.opened = nil
}

// applyRedirections rebinds the stage's streams to the files named by
// the command, in the order input, output, error. It runs strictly
// after pipe wiring, so an explicit redirection always overrides a
// pipe connection on the same stream.
//
// On failure it writes a single diagnostic line to the stage's stderr
// as bound at that moment and stops; the stage must then terminate
// with a failure status without being spawned.
func applyRedirections(cmd *shell.Command, s *stdio) error {
	if cmd.InFile != "" {
		f, err := os.Open(cmd.InFile)
		if err != nil {
			fmt.Fprintln(s.err, MsgFileNotFound)
			return err
		}
		s.in = f
		s.opened = append(s.opened, f)
	}

	if cmd.OutFile != "" {
		f, err := os.OpenFile(cmd.OutFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outFileMode)
		if err != nil {
			fmt.Fprintln(s.err, err)
			return err
		}
		s.out = f
		s.opened = append(s.opened, f)
	}

	if cmd.ErrFile != "" {
		f, err := os.OpenFile(cmd.ErrFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outFileMode)
		if err != nil {
			fmt.Fprintln(s.err, err)
			return err
		}
		s.err = f
		s.opened = append(s.opened, f)
	}

	return nil
}
