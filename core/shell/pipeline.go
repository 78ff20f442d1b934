package shell

// Command is one pipeline stage: a program invocation plus optional
// file redirections. An empty redirection field means "inherit the
// surrounding descriptor", either the terminal or a pipe endpoint.
type Command struct {
	// Argv holds the program name followed by its arguments. It is
	// never empty after a successful parse.
	Argv []string `json:"argv"`

	InFile  string `json:"in_file,omitempty"`  // for "<"
	OutFile string `json:"out_file,omitempty"` // for ">"
	ErrFile string `json:"err_file,omitempty"` // for "2>"
}

// Pipeline is an ordered sequence of commands whose standard streams
// are chained via pipes: cmd0 | cmd1 | cmd2. A pipeline is built fresh
// for each input line and never outlives it.
type Pipeline struct {
	Cmds []Command `json:"cmds"`
}

// Release resets the pipeline to a reusable empty state. It is safe to
// call on nil, on a partially constructed pipeline after a failed
// parse, and more than once.
func (p *Pipeline) Release() {
	if p == nil {
		return
	}
	for i := range p.Cmds {
		c := &p.Cmds[i]
		c.Argv = nil
		c.InFile = ""
		c.OutFile = ""
		c.ErrFile = ""
	}
	p.Cmds = nil
}
