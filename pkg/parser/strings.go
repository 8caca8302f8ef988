package parser

import (
	"strconv"
	"strings"
)

// UnquoteString strips the quotes of a JavaScript string literal.
func UnquoteString(text string) string {
	if len(text) < 2 {
		return text
	}

	if text[0] == '`' && text[len(text)-1] == '`' {
		return text[1 : len(text)-1]
	}

	// strconv.Unquote only handles double quotes: unescape \' and escape any
	// double quotes before re-wrapping.
	if text[0] == '\'' && text[len(text)-1] == '\'' {
		inner := text[1 : len(text)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		escaped := strings.ReplaceAll(inner, `"`, `\"`)
		if s, err := strconv.Unquote(`"` + escaped + `"`); err == nil {
			return s
		}
		return inner
	}

	if s, err := strconv.Unquote(text); err == nil {
		return s
	}

	return text
}
