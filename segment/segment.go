// Package segment partitions a document's line sequence into per-student
// blocks, resolves enrollment references that pagination pushed onto their
// own line, and filters repeated page-header noise out of each block.
package segment

import (
	"regexp"
	"strings"

	"github.com/muresults/gazette/rows"
)

// FloatingWindow is the maximum distance in lines between an orphan
// reference line and the block start it can attach to.
const FloatingWindow = 5

var repeaterRe = regexp.MustCompile(`(?i)\bRepeater\b`)

// BlockStarts returns the indices of all block-start lines in document
// order. Block i spans [starts[i], starts[i+1]); the last block runs to the
// end of the input. Pure function of the input: identical lines always yield
// identical boundaries.
func BlockStarts(lines []string) []int {
	var starts []int
	for i, line := range lines {
		if rows.IsBlockStart(line) {
			starts = append(starts, i)
		}
	}
	return starts
}

// ResolveFloating finds enrollment references sitting alone on
// non-block-start lines (punctuation and spacing within the reference are
// tolerated) and attaches each to the nearest following block start, keyed
// by the start's line index. Only the first block start after the reference
// is considered, and only when it is at most FloatingWindow lines away;
// otherwise the fragment is discarded. When two orphan references precede
// the same block start, the later one wins.
func ResolveFloating(lines []string, starts []int) map[int]string {
	resolved := make(map[int]string)
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if rows.IsBlockStart(stripped) {
			continue
		}
		ern, ok := rows.CanonicalERN(stripped)
		if !ok {
			continue
		}
		for _, bs := range starts {
			if bs > i {
				if bs-i <= FloatingWindow {
					resolved[bs] = ern
				}
				break
			}
		}
	}
	return resolved
}

// FilterBlock trims a block's raw lines to the usable signal: whitespace
// stripped, empties dropped, and everything from the first page-header
// repeat onward discarded. A line that is just a stray closing parenthesis
// (the tail of a reference broken across lines) is dropped without
// truncating.
func FilterBlock(lines []string) []string {
	var out []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isPageHeader(line) {
			break
		}
		if line == ")" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// isPageHeader matches the recurring table headers, legends and column
// captions that the source repeats at the top of every page.
func isPageHeader(line string) bool {
	switch {
	case strings.HasPrefix(line, "SEAT NO"),
		strings.HasPrefix(line, "10411 :"):
		return true
	case strings.HasPrefix(line, "WORK)") && strings.Contains(line, "Engineering"):
		return true
	case strings.HasPrefix(line, "TOT GP G") && strings.Contains(line, "C G*C"):
		return true
	case strings.HasPrefix(line, "TERM WORK"),
		strings.HasPrefix(line, "ORAL ("):
		return true
	case strings.HasPrefix(line, "External ("),
		strings.HasPrefix(line, "Internal("):
		return true
	case strings.HasPrefix(line, "Mathematics-I"):
		return true
	}
	return false
}

// IsRepeater reports whether a header line carries the re-examination
// status. Such blocks are excluded from output entirely.
func IsRepeater(line string) bool {
	return repeaterRe.MatchString(line)
}
