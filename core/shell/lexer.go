package shell

// Tokenize splits a raw command line into words and the operators "<",
// ">", "2>" and "|". Operators need no surrounding whitespace, so
// "a<b" and "a < b" produce identical token streams. Runs of
// whitespace separate tokens and are discarded.
//
// No semantic validation happens here; any operator arrangement is a
// legal token sequence until Parse rejects it.
func Tokenize(line string) []string {
	var tokens []string

	i := 0
	for i < len(line) {
		switch {
		case isSpace(line[i]):
			i++

		// "2>" is a single two-character operator, even inside a word.
		case line[i] == '2' && i+1 < len(line) && line[i+1] == '>':
			tokens = append(tokens, OpErr)
			i += 2

		case line[i] == '<' || line[i] == '>' || line[i] == '|':
			tokens = append(tokens, string(line[i]))
			i++

		default:
			start := i
			for i < len(line) && !isSpace(line[i]) &&
				line[i] != '<' && line[i] != '>' && line[i] != '|' {
				if line[i] == '2' && i+1 < len(line) && line[i+1] == '>' {
					break
				}
				i++
			}
			tokens = append(tokens, line[start:i])
		}
	}

	return tokens
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
