// Package matcher matches names such as email addresses against
// shell-style glob patterns (*, ?, [...], [!...]).
//
// Patterns follow fnmatch rules rather than path.Match: '*' also crosses
// '/', a class opened with '!' is negated, and a '[' without a closing
// ']' is a literal bracket.
package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher checks names against one compiled pattern.
type Matcher interface {
	// Match reports whether name matches the pattern.
	Match(name string) bool
	// Pattern returns the original pattern string.
	Pattern() string
}

type glob struct {
	pattern string
	re      *regexp.Regexp
}

// New validates pattern and returns a Matcher for it. An empty pattern is
// rejected: it would match nothing but the empty string.
func New(pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	re, err := regexp.Compile(translate(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return &glob{pattern: pattern, re: re}, nil
}

func (m *glob) Match(name string) bool {
	return m.re.MatchString(name)
}

func (m *glob) Pattern() string {
	return m.pattern
}

// translate turns a glob into an anchored regular expression.
func translate(pattern string) string {
	var b strings.Builder
	b.WriteString(`(?s)^`)

	for i := 0; i < len(pattern); {
		c := pattern[i]
		i++
		switch c {
		case '*':
			for i < len(pattern) && pattern[i] == '*' {
				i++
			}
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(class(pattern[i:end]))
			i = end + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	b.WriteString(`$`)
	return b.String()
}

// classEnd returns the index of the ']' closing a class whose body starts
// at i, or -1. A ']' right after the opening (or after '!') is a member.
func classEnd(pattern string, i int) int {
	j := i
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	end := strings.IndexByte(pattern[j:], ']')
	if end < 0 {
		return -1
	}
	return j + end
}

func class(body string) string {
	var b strings.Builder
	b.WriteByte('[')
	if strings.HasPrefix(body, "!") {
		b.WriteByte('^')
		body = body[1:]
	}
	for k := 0; k < len(body); k++ {
		switch c := body[k]; c {
		case '\\', '[', ']', '^':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(']')
	return b.String()
}
