package rows

import (
	"regexp"
	"strconv"
	"strings"
)

// TotalsPrefix opens the consolidated totals row of a block.
const TotalsPrefix = "TOT"

var (
	totPrefixRe  = regexp.MustCompile(`^TOT\s+`)
	totalMarksRe = regexp.MustCompile(`^\d+\+?$`)
	gradeRe      = regexp.MustCompile(`^[ABCDFO][+]?$`)
)

// TotalsEntry is one subject's consolidated group from the totals row:
// total marks, grade point, grade symbol, credits and credit points.
// Entries align to subject ordinals by position.
type TotalsEntry struct {
	Total        int
	GradePoint   int
	Grade        string
	Credits      float64
	CreditPoints float64
}

// Totals is the parsed totals row. SGPA is 0 when the row carries none.
// Credits and CreditPoints are the row's trailing aggregate sums, read
// best-effort and left 0 when unreadable.
type Totals struct {
	Entries      []TotalsEntry
	SGPA         float64
	Credits      float64
	CreditPoints float64
}

// ParseTotals tokenizes the totals row. The tail is read first: the last
// token is the SGPA when it parses as a decimal in [0,10], and the two
// tokens before it are then consumed as the aggregate credit-points and
// credits sums. The rest is scanned left to right in repeating 4-or-5-token
// subject groups; a group whose grade point or grade symbol is malformed is
// abandoned and the scan restarts at the offending token, so one bad group
// never shifts the ones after it.
func ParseTotals(line string) Totals {
	content := totPrefixRe.ReplaceAllString(strings.TrimSpace(line), "")
	toks := fields(content)

	var t Totals
	if len(toks) > 0 {
		if v, err := strconv.ParseFloat(toks[len(toks)-1], 64); err == nil && v >= 0 && v <= 10 {
			t.SGPA = v
			toks = toks[:len(toks)-1]
			if len(toks) > 0 {
				if v, err := strconv.ParseFloat(toks[len(toks)-1], 64); err == nil {
					t.CreditPoints = v
					toks = toks[:len(toks)-1]
				}
			}
			if len(toks) > 0 {
				if v, err := strconv.ParseFloat(toks[len(toks)-1], 64); err == nil {
					t.Credits = v
					toks = toks[:len(toks)-1]
				}
			}
		}
	}

	ts := newScanner(toks)
	for ts.more() {
		tok := ts.peek()

		// Placeholder for a subject without full totals.
		if tok == "..." {
			ts.skip()
			continue
		}

		// A group opens with total marks, optionally carrying a grace "+".
		if !totalMarksRe.MatchString(tok) {
			ts.skip()
			continue
		}
		total, err := strconv.Atoi(strings.TrimSuffix(tok, "+"))
		if err != nil {
			ts.skip()
			continue
		}
		ts.next()

		// "@N" adds N grace marks to the total.
		if g := ts.peek(); strings.HasPrefix(g, "@") {
			n, err := strconv.Atoi(g[1:])
			if err != nil {
				ts.skip()
				continue
			}
			total += n
			ts.next()
		}

		gpTok := ts.peek()
		if gpTok == "" || !intRe.MatchString(gpTok) {
			continue
		}
		gp, err := strconv.Atoi(gpTok)
		if err != nil {
			continue
		}
		ts.next()

		if !ts.more() {
			break
		}
		grade := ts.next()
		// A detached modifier ("B" followed by a lone "+") merges back.
		if ts.peek() == "+" {
			grade += "+"
			ts.next()
		}
		if !gradeRe.MatchString(grade) {
			continue
		}

		if !ts.more() {
			break
		}
		credits, err := strconv.ParseFloat(ts.peek(), 64)
		if err != nil {
			ts.skip()
			continue
		}
		ts.next()

		if !ts.more() {
			break
		}
		creditPoints, err := strconv.ParseFloat(ts.peek(), 64)
		if err != nil {
			ts.skip()
			continue
		}
		ts.next()

		t.Entries = append(t.Entries, TotalsEntry{
			Total:        total,
			GradePoint:   gp,
			Grade:        grade,
			Credits:      credits,
			CreditPoints: creditPoints,
		})
	}

	return t
}
