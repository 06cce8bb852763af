// Package rows tokenizes the fixed-grammar lines of a student block: the
// header line, the consolidated totals line, and the four sparse component
// mark lines. Field boundaries in the source text are not delimited; they
// are inferred from token shape (digit runs, grade letters, decimal points,
// placeholder markers).
//
// All tokenizers are deliberately lenient: a token that does not fit the
// grammar at the current scan position is skipped individually and scanning
// resumes at the next token, so minor misalignment from the upstream text
// extraction never costs more than one token.
package rows

import (
	"regexp"
	"strings"
)

var (
	intRe     = regexp.MustCompile(`^\d+$`)
	decimalRe = regexp.MustCompile(`^\d+\.\d+$`)
)

// tokenScanner steps through whitespace-split tokens. skip is the resync
// transition: drop exactly one token and continue.
type tokenScanner struct {
	toks []string
	pos  int
}

func newScanner(toks []string) *tokenScanner {
	return &tokenScanner{toks: toks}
}

func (ts *tokenScanner) more() bool { return ts.pos < len(ts.toks) }

// peek returns the current token without consuming it, or "" at the end.
func (ts *tokenScanner) peek() string { return ts.peekAt(0) }

// peekAt returns the token at the given offset past the current position.
func (ts *tokenScanner) peekAt(off int) string {
	if ts.pos+off >= len(ts.toks) {
		return ""
	}
	return ts.toks[ts.pos+off]
}

// next consumes and returns the current token.
func (ts *tokenScanner) next() string {
	t := ts.peek()
	if ts.more() {
		ts.pos++
	}
	return t
}

// skip drops the current token.
func (ts *tokenScanner) skip() { ts.pos++ }

// fields splits on any whitespace after trimming.
func fields(s string) []string { return strings.Fields(strings.TrimSpace(s)) }
