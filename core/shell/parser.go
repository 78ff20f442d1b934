package shell

import "errors"

// Fixed diagnostics for syntax errors. External tools match on these
// strings, so they must be reproduced verbatim.
const (
	MsgCommandMissing    = "Command missing after pipe."
	MsgEmptyCommand      = "Empty command between pipes."
	MsgInFileMissing     = "Input file not specified."
	MsgOutFileMissing    = "Output file not specified."
	MsgOutFileAfterRedir = "Output file not specified after redirection."
	MsgErrFileMissing    = "Error output file not specified."
)

// ErrEmptyLine is returned by Parse for a blank or whitespace-only
// line. It is not a syntax error; callers should re-prompt without
// printing anything.
var ErrEmptyLine = errors.New("empty command line")

// SyntaxError is a command-line validation failure with one of the
// fixed diagnostic messages.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

func syntaxErr(msg string) error {
	return &SyntaxError{Msg: msg}
}

// Parse tokenizes and validates a raw command line, producing a
// pipeline ready for execution.
//
// Parse catches shell syntax problems: a missing file after "<", ">"
// or "2>", a missing command around a pipe, and an empty command
// between two pipes. Whether the commands themselves exist is decided
// at execution time, not here.
func Parse(line string) (*Pipeline, error) {
	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return nil, ErrEmptyLine
	}

	// Pipe placement is checked over the whole token sequence before
	// any segmentation happens.
	if tokens[0] == OpPipe || tokens[len(tokens)-1] == OpPipe {
		return nil, syntaxErr(MsgCommandMissing)
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == OpPipe && tokens[i-1] == OpPipe {
			return nil, syntaxErr(MsgEmptyCommand)
		}
	}

	nCmds := 1
	for _, tok := range tokens {
		if tok == OpPipe {
			nCmds++
		}
	}

	p := &Pipeline{Cmds: make([]Command, 0, nCmds)}

	seg := tokens
	for len(seg) > 0 {
		end := len(seg)
		next := 0
		for i, tok := range seg {
			if tok == OpPipe {
				end = i
				next = i + 1
				break
			}
		}

		last := next == 0 // no pipe found, this is the final segment
		cmd, err := parseSegment(seg[:end], last && nCmds > 1)
		if err != nil {
			p.Release()
			return nil, err
		}
		p.Cmds = append(p.Cmds, cmd)

		if last {
			break
		}
		seg = seg[next:]
	}

	return p, nil
}

// parseSegment builds one Command from the tokens between two pipe
// operators. finalOfPipe is true for the last segment of a
// multi-command pipeline, which gets a special diagnostic when ">" is
// its final token.
func parseSegment(seg []string, finalOfPipe bool) (Command, error) {
	var cmd Command

	for i := 0; i < len(seg); i++ {
		tok := seg[i]
		if !IsRedirect(tok) {
			cmd.Argv = append(cmd.Argv, tok)
			continue
		}

		// The operand must exist and must itself be a plain word.
		if i+1 >= len(seg) || IsOperator(seg[i+1]) {
			return Command{}, syntaxErr(missingFileMsg(tok, finalOfPipe && i == len(seg)-1))
		}

		// A repeated operator silently overwrites the earlier file.
		switch tok {
		case OpIn:
			cmd.InFile = seg[i+1]
		case OpOut:
			cmd.OutFile = seg[i+1]
		case OpErr:
			cmd.ErrFile = seg[i+1]
		}
		i++
	}

	// Catches segments that contain only redirections.
	if len(cmd.Argv) == 0 {
		return Command{}, syntaxErr(MsgCommandMissing)
	}

	return cmd, nil
}

func missingFileMsg(op string, trailingOutput bool) string {
	switch op {
	case OpIn:
		return MsgInFileMissing
	case OpErr:
		return MsgErrFileMissing
	default:
		if trailingOutput {
			return MsgOutFileAfterRedir
		}
		return MsgOutFileMissing
	}
}
