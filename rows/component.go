package rows

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Trailing fragments a component row may carry after its marks: a MARKS
// caption, the block's "(total) PASS/FAILED" summary, and placeholder tails.
var (
	marksSuffixRe   = regexp.MustCompile(`\s+MARKS\s*$`)
	summarySuffixRe = regexp.MustCompile(`(?i)\s+\(\d+\)\s*(PASS|FAILED|FAIL)\s*$`)
	ellipsisPassRe  = regexp.MustCompile(`\s+\.\.\.\s+P\s*$`)
	ellipsisTailRe  = regexp.MustCompile(`\s+\.\.\.\s*$`)
)

// ParseComponent extracts the marks from one sparse component row. prefix is
// the row's 2-character marker ("T1", "O1", "E1" or "I1"); marks come back
// in appearance order and the caller truncates to the row kind's capacity.
//
// Failed subjects carry a grade annotation after the mark, either "<mark> P"
// or "<mark> <gradePoint> <grade> [<decimal>]". The grade-point integer is
// shape-indistinguishable from a mark, so after each recorded mark the
// tokenizer looks one token ahead: an integer followed by a pass/fail letter
// is an annotation, not a second mark, and is skipped along with the letter
// and an optional trailing decimal.
func ParseComponent(line, prefix string) []int {
	content := trimRowPrefix(strings.TrimSpace(line), prefix)
	content = marksSuffixRe.ReplaceAllString(content, "")
	content = summarySuffixRe.ReplaceAllString(content, "")
	content = ellipsisPassRe.ReplaceAllString(content, "")
	content = ellipsisTailRe.ReplaceAllString(content, "")

	var marks []int
	ts := newScanner(fields(content))
	for ts.more() {
		tok := ts.peek()

		// Standalone pass/fail letters and placeholders are not marks.
		if tok == "P" || tok == "F" || tok == "..." {
			ts.skip()
			continue
		}
		// Bare decimals are credit values from failed-subject annotations.
		if decimalRe.MatchString(tok) {
			ts.skip()
			continue
		}
		if !intRe.MatchString(tok) {
			ts.skip()
			continue
		}
		mark, err := strconv.Atoi(tok)
		if err != nil {
			ts.skip()
			continue
		}
		ts.next()

		// "@N" grace adjustment; the token is consumed either way.
		if g := ts.peek(); strings.HasPrefix(g, "@") {
			if n, err := strconv.Atoi(g[1:]); err == nil {
				mark += n
			}
			ts.next()
		}

		marks = append(marks, mark)

		// Skip the trailing grade annotation, if any.
		if nxt := ts.peek(); nxt == "F" || nxt == "P" {
			ts.next()
			if decimalRe.MatchString(ts.peek()) {
				ts.next()
			}
		} else if intRe.MatchString(nxt) && (ts.peekAt(1) == "F" || ts.peekAt(1) == "P") {
			ts.next() // grade point
			ts.next() // grade letter
			if decimalRe.MatchString(ts.peek()) {
				ts.next()
			}
		}
	}

	return marks
}

// trimRowPrefix removes the row marker and the whitespace after it. The
// marker must be followed by whitespace to count; otherwise the line is
// returned unchanged.
func trimRowPrefix(s, prefix string) string {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return s
	}
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if trimmed == rest {
		return s
	}
	return trimmed
}
