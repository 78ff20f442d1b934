package shell

// Shell operators recognized by the tokenizer. Everything else is a word.
const (
	OpIn   = "<"
	OpOut  = ">"
	OpErr  = "2>"
	OpPipe = "|"
)

// IsOperator reports whether tok is one of the shell operators. The
// distinction is purely lexical; tokens carry no other state.
func IsOperator(tok string) bool {
	switch tok {
	case OpIn, OpOut, OpErr, OpPipe:
		return true
	}
	return false
}

// IsRedirect reports whether tok is a redirection operator.
func IsRedirect(tok string) bool {
	switch tok {
	case OpIn, OpOut, OpErr:
		return true
	}
	return false
}
