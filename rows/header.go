package rows

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	blockStartRe = regexp.MustCompile(`^\d{7}\s+[A-Z]`)
	seatRe       = regexp.MustCompile(`^(\d{7})\s+`)
	statusRe     = regexp.MustCompile(`(?i)\b(Regular|Repeater|ATKT)\b`)
	genderRe     = regexp.MustCompile(`(?i)\b(MALE|FEMALE)\b`)
	collegeRe    = regexp.MustCompile(`MU-\d+:\s*(.+?)\s*$`)
	ernRe        = regexp.MustCompile(`MU\d{16}`)
	ernExactRe   = regexp.MustCompile(`^MU\d{16}$`)
	nonAlnumRe   = regexp.MustCompile(`[^A-Z0-9]`)
)

// Header holds the identity fields recovered from a block's first line.
type Header struct {
	SeatNumber string
	Name       string
	Gender     string // MALE or FEMALE, "" when absent
	ERN        string // enrollment reference, "" when not on this line
	College    string
	Status     string // Regular, Repeater or ATKT, as written in the source
}

// IsBlockStart reports whether the line opens a student block: exactly seven
// digits, whitespace, then an uppercase letter (seat number followed by a
// name).
func IsBlockStart(line string) bool {
	return blockStartRe.MatchString(strings.TrimSpace(line))
}

// ExtractERN returns the first well-formed enrollment reference embedded in
// the text.
func ExtractERN(text string) (string, bool) {
	ern := ernRe.FindString(text)
	return ern, ern != ""
}

// CanonicalERN strips all non-alphanumeric characters (parentheses, dashes,
// spaces) from the text, uppercases it, and returns the result when what
// remains is exactly an enrollment reference. Used for lines that hold a
// reference on its own, where the digits may be broken up by punctuation.
func CanonicalERN(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	clean := nonAlnumRe.ReplaceAllString(strings.ToUpper(text), "")
	if !ernExactRe.MatchString(clean) {
		return "", false
	}
	return clean, true
}

// IsValidERN reports whether the text is an enrollment reference once all
// non-alphanumeric characters are stripped.
func IsValidERN(text string) bool {
	_, ok := CanonicalERN(text)
	return ok
}

// ParseHeader extracts the identity fields from a block's first line. The
// second return is false when the line does not start with a seat number, in
// which case the block cannot describe a student.
func ParseHeader(line string) (Header, bool) {
	line = strings.TrimSpace(line)

	seat := seatRe.FindStringSubmatchIndex(line)
	if seat == nil {
		return Header{}, false
	}
	h := Header{SeatNumber: line[seat[2]:seat[3]]}
	rest := line[seat[1]:]

	statusLoc := statusRe.FindStringSubmatchIndex(rest)
	if statusLoc != nil {
		h.Status = rest[statusLoc[2]:statusLoc[3]]
	} else {
		h.Status = "Regular"
	}

	if g := genderRe.FindString(rest); g != "" {
		h.Gender = strings.ToUpper(g)
	}

	if ern, ok := ExtractERN(rest); ok {
		h.ERN = ern
	}

	if m := collegeRe.FindStringSubmatch(rest); m != nil {
		h.College = strings.TrimSpace(m[1])
	}

	// The name sits between the seat number and the status keyword. Without
	// a status keyword, take everything before the reference or the college
	// marker and drop gender tokens.
	var namePart string
	if statusLoc != nil {
		namePart = strings.TrimSpace(rest[:statusLoc[0]])
	} else {
		namePart = rest
		if i := strings.Index(namePart, "("); i >= 0 {
			namePart = namePart[:i]
		}
		if i := strings.Index(namePart, "MU-"); i >= 0 {
			namePart = namePart[:i]
		}
		namePart = strings.TrimSpace(genderRe.ReplaceAllString(namePart, ""))
	}
	h.Name = cleanName(namePart)

	return h, true
}

// cleanName keeps only fully alphabetic words that are not gender tokens,
// title-cases each, and joins them with single spaces.
func cleanName(s string) string {
	caser := cases.Title(language.English)
	var words []string
	for _, w := range strings.Fields(s) {
		if !isAlpha(w) {
			continue
		}
		if up := strings.ToUpper(w); up == "MALE" || up == "FEMALE" {
			continue
		}
		words = append(words, caser.String(w))
	}
	return strings.Join(words, " ")
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
