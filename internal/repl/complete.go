package repl

import (
	"strings"
)

// CompletionContext is the live data completion draws from.
type CompletionContext struct {
	Ports      []string
	ConfigKeys []string
}

// Complete returns the candidates for the token under the cursor at the end
// of line. Level 0 completes command names; level 1 completes port names
// after connect and config keys after config. It never has side effects.
func Complete(line string, ctx CompletionContext) []string {
	tokens := strings.Fields(line)
	prefix := currentToken(line)
	level := len(tokens)
	if prefix != "" {
		level--
	}

	var candidates []string
	switch level {
	case 0:
		candidates = CommandNames
	case 1:
		switch tokens[0] {
		case "connect":
			candidates = ctx.Ports
		case "config":
			candidates = ctx.ConfigKeys
		}
	}

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// currentToken returns the partial token at the end of line, empty when the
// line ends in whitespace.
func currentToken(line string) string {
	if line == "" || strings.TrimRight(line, " \t") != line {
		return ""
	}
	fields := strings.Fields(line)
	return fields[len(fields)-1]
}

// autoCompleter adapts Complete to readline.AutoCompleter.
type autoCompleter struct {
	context func() CompletionContext
}

func (a autoCompleter) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	prefix := currentToken(head)
	candidates := Complete(head, a.context())

	out := make([][]rune, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, []rune(c[len(prefix):]+" "))
	}
	return out, len([]rune(prefix))
}
