package pathaccess

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is an ordered sequence of mapping keys (string) and sequence indices (int).
type Path []any

// Append returns a new Path with elems added, leaving p untouched.
func (p Path) Append(elems ...any) Path {
	out := make(Path, 0, len(p)+len(elems))
	out = append(out, p...)
	return append(out, elems...)
}

// String renders the path as an RFC 6901 JSON pointer, e.g. "/paths/~1pets/get".
// The empty path renders as "".
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, elem := range p {
		b.WriteByte('/')
		switch e := elem.(type) {
		case string:
			b.WriteString(EscapeToken(e))
		case int:
			b.WriteString(strconv.Itoa(e))
		default:
			b.WriteString(EscapeToken(toString(e)))
		}
	}
	return b.String()
}

// FromTokens converts JSON pointer tokens into a Path of string keys.
func FromTokens(tokens []string) Path {
	p := make(Path, len(tokens))
	for i, tok := range tokens {
		p[i] = tok
	}
	return p
}

// EscapeToken escapes a single JSON pointer token.
// Per RFC 6901, ~ becomes ~0 and / becomes ~1.
func EscapeToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// UnescapeToken unescapes a single JSON pointer token.
// Per RFC 6901, ~1 represents / and ~0 represents ~
func UnescapeToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}
