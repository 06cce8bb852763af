// Package curriculum defines the static subject layout of the first-year
// engineering result template: the fixed subject list in totals-line order,
// which mark components each subject carries, and where each subject's value
// sits within the four sparse component rows.
//
// All tables are compiled-in constants. The template they describe is fixed
// per report series, so there is no runtime configuration surface.
package curriculum

// MaxMarks is the aggregate maximum for the semester across all subjects.
const MaxMarks = 800

// Component identifies one of the four mark components a subject may carry.
type Component int

const (
	TermWork Component = iota
	Oral
	External
	Internal
)

// Components lists all component kinds in their row order within a block.
func Components() []Component {
	return []Component{TermWork, Oral, External, Internal}
}

// String returns the JSON field name used for the component.
func (c Component) String() string {
	switch c {
	case TermWork:
		return "termWork"
	case Oral:
		return "oral"
	case External:
		return "external"
	case Internal:
		return "internal"
	}
	return "unknown"
}

// Prefix returns the 2-character marker that opens the component's row.
func (c Component) Prefix() string {
	switch c {
	case TermWork:
		return "T1"
	case Oral:
		return "O1"
	case External:
		return "E1"
	case Internal:
		return "I1"
	}
	return ""
}

// MaxValues returns the maximum number of marks the component's row can
// carry. Tokenizer output beyond this count is spurious and must be dropped.
func (c Component) MaxValues() int {
	switch c {
	case TermWork:
		return 8
	case Oral:
		return 3
	case External:
		return 6
	case Internal:
		return 7
	}
	return 0
}

// Subject describes one subject of the template. Ordinal is the subject's
// 0-based position in the totals line; the subject list below is stored in
// ordinal order.
type Subject struct {
	Code    string
	Name    string
	Ordinal int
}

// The fixed subject list. Order matters: index == ordinal == totals-line
// group position.
var subjects = [...]Subject{
	{Code: "10411", Name: "Applied Mathematics-I", Ordinal: 0},
	{Code: "10412", Name: "Applied Physics", Ordinal: 1},
	{Code: "10413", Name: "Applied Chemistry", Ordinal: 2},
	{Code: "10414", Name: "Engineering Mechanics", Ordinal: 3},
	{Code: "10415", Name: "Basic Electrical & Electronics Engineering", Ordinal: 4},
	{Code: "10416", Name: "Applied Physics Lab", Ordinal: 5},
	{Code: "10417", Name: "Applied Chemistry Lab", Ordinal: 6},
	{Code: "10418", Name: "Engineering Mechanics Lab", Ordinal: 7},
	{Code: "10419", Name: "Basic Electrical & Electronics Lab", Ordinal: 8},
	{Code: "10420", Name: "Professional Communication Ethics", Ordinal: 9},
	{Code: "10421", Name: "Professional Communication Ethics TW", Ordinal: 10},
	{Code: "10422", Name: "Engineering Workshop-I", Ordinal: 11},
	{Code: "10423", Name: "C Programming", Ordinal: 12},
	{Code: "10424", Name: "Induction cum Universal Human Values", Ordinal: 13},
}

// Column position of each subject ordinal within the sparse component rows.
// A missing key means the subject does not have that component at all
// (theory-only subjects have no term work, labs have no external exam, and
// only three subjects carry an oral component).
var (
	termWorkColumns = map[int]int{
		0: 0, 5: 1, 6: 2, 7: 3, 8: 4, 10: 5, 11: 6, 12: 7,
	}
	oralColumns = map[int]int{
		7: 0, 8: 1, 12: 2,
	}
	externalColumns = map[int]int{
		0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 9: 5,
	}
	internalColumns = map[int]int{
		0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 9: 5, 13: 6,
	}
)

// Count returns the number of subjects in the template.
func Count() int { return len(subjects) }

// At returns the subject at the given ordinal.
func At(ordinal int) (Subject, bool) {
	if ordinal < 0 || ordinal >= len(subjects) {
		return Subject{}, false
	}
	return subjects[ordinal], true
}

// Name returns the display name for a subject code, or the code itself when
// the code is not part of the template.
func Name(code string) string {
	for _, s := range subjects {
		if s.Code == code {
			return s.Name
		}
	}
	return code
}

// Column returns the subject ordinal's position within the given component's
// row. ok is false when the subject does not carry that component.
func Column(c Component, ordinal int) (pos int, ok bool) {
	switch c {
	case TermWork:
		pos, ok = termWorkColumns[ordinal]
	case Oral:
		pos, ok = oralColumns[ordinal]
	case External:
		pos, ok = externalColumns[ordinal]
	case Internal:
		pos, ok = internalColumns[ordinal]
	}
	return pos, ok
}
