package gazette

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/muresults/gazette/curriculum"
	"github.com/muresults/gazette/rows"
	"github.com/muresults/gazette/segment"
)

// blockSummaryRe finds the authoritative "(total) PASS/FAILED" fragment that
// trails one of the component rows.
var blockSummaryRe = regexp.MustCompile(`(?i)\((\d+)\)\s*(PASS|FAILED|FAIL)\s*$`)

// blockOutcome is one block's assembly result: a student, a recorded
// failure, or neither when the block is structurally unusable.
type blockOutcome struct {
	student *Student
	failure *BlockFailure
}

// assembleOutcome runs one block's assembly, converting a panic into a
// recorded failure so a malformed block never aborts the parse.
func assembleOutcome(lines []string, startLine int, floatingERN string) (out blockOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = blockOutcome{failure: &BlockFailure{Line: startLine, Message: fmt.Sprint(r)}}
		}
	}()
	return blockOutcome{student: assembleBlock(lines, floatingERN)}
}

// assembleBlock builds one student record from a block's raw lines.
// floatingERN is the enrollment reference resolved for this block from an
// orphan line, used when the header line carries none. A nil return is a
// structural miss: the block lacks the rows a usable record needs and is
// dropped silently.
func assembleBlock(raw []string, floatingERN string) *Student {
	lines := segment.FilterBlock(raw)
	if len(lines) == 0 {
		return nil
	}
	// Re-examination blocks are intentionally not modeled.
	if segment.IsRepeater(lines[0]) {
		return nil
	}
	if len(lines) < 2 {
		return nil
	}

	header, ok := rows.ParseHeader(lines[0])
	if !ok {
		return nil
	}
	if header.ERN == "" && floatingERN != "" {
		header.ERN = floatingERN
	}

	comps := make(map[curriculum.Component][]int, 4)
	var totals rows.Totals
	for _, line := range lines {
		if strings.HasPrefix(line, rows.TotalsPrefix+" ") {
			totals = rows.ParseTotals(line)
			continue
		}
		for _, c := range curriculum.Components() {
			if strings.HasPrefix(line, c.Prefix()+" ") {
				marks := rows.ParseComponent(line, c.Prefix())
				if len(marks) > c.MaxValues() {
					marks = marks[:c.MaxValues()]
				}
				comps[c] = marks
				break
			}
		}
	}
	if len(totals.Entries) == 0 {
		return nil
	}

	n := len(totals.Entries)
	if n > curriculum.Count() {
		n = curriculum.Count()
	}
	subjects := make([]Subject, 0, n)
	for i := 0; i < n; i++ {
		entry := totals.Entries[i]
		def, _ := curriculum.At(i)

		m := Marks{
			TermWork:     componentValue(comps, curriculum.TermWork, i),
			Oral:         componentValue(comps, curriculum.Oral, i),
			External:     componentValue(comps, curriculum.External, i),
			Internal:     componentValue(comps, curriculum.Internal, i),
			Total:        entry.Total,
			GradePoint:   entry.GradePoint,
			Grade:        entry.Grade,
			Credits:      entry.Credits,
			CreditPoints: entry.CreditPoints,
			Status:       subjectStatus(entry.Grade),
		}
		isKT := entry.Grade == "F" || entry.GradePoint == 0
		subjects = append(subjects, Subject{
			Code:   def.Code,
			Name:   def.Name,
			Marks:  m,
			IsKT:   isKT,
			KTType: ktKind(m, isKT),
		})
	}

	totalMarks, result := scanBlockSummary(lines)
	if totalMarks == 0 {
		for _, s := range subjects {
			totalMarks += s.Marks.Total
		}
	}
	var credits, creditPoints float64
	for _, s := range subjects {
		credits += s.Marks.Credits
		creditPoints += s.Marks.CreditPoints
	}

	return &Student{
		SeatNumber:        header.SeatNumber,
		Name:              header.Name,
		Gender:            optional(header.Gender),
		ERN:               optional(header.ERN),
		College:           header.College,
		Status:            header.Status,
		Subjects:          subjects,
		TotalMarks:        totalMarks,
		MaxMarks:          curriculum.MaxMarks,
		Result:            result,
		SGPA:              totals.SGPA,
		TotalCredits:      credits,
		TotalCreditPoints: creditPoints,
		KT:                summarizeKT(subjects),
	}
}

// componentValue maps a subject ordinal into one component row's marks.
// nil means the subject does not carry the component, or the row did not
// reach the mapped position.
func componentValue(comps map[curriculum.Component][]int, c curriculum.Component, ordinal int) *int {
	pos, ok := curriculum.Column(c, ordinal)
	if !ok {
		return nil
	}
	marks := comps[c]
	if pos >= len(marks) {
		return nil
	}
	v := marks[pos]
	return &v
}

func subjectStatus(grade string) string {
	if grade == "F" {
		return "F"
	}
	return "P"
}

// ktKind classifies a backlog by its first zero component in fixed priority
// order: external, internal, term work, oral, else overall. The checks
// apply only to components the subject actually carries.
func ktKind(m Marks, isKT bool) *string {
	if !isKT {
		return nil
	}
	kind := "overall"
	switch {
	case m.External != nil && *m.External == 0:
		kind = "external"
	case m.Internal != nil && *m.Internal == 0:
		kind = "internal"
	case m.TermWork != nil && *m.TermWork == 0:
		kind = "termWork"
	case m.Oral != nil && *m.Oral == 0:
		kind = "oral"
	}
	return &kind
}

// scanBlockSummary returns the authoritative reported total and outcome
// from the first "(total) PASS/FAILED" fragment in the block, or 0 and
// FAILED when the block carries none.
func scanBlockSummary(lines []string) (int, string) {
	for _, line := range lines {
		m := blockSummaryRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		total, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		result := "FAILED"
		if strings.Contains(strings.ToUpper(m[2]), "PASS") {
			result = "PASS"
		}
		return total, result
	}
	return 0, "FAILED"
}

// summarizeKT aggregates backlogs across a student's subjects. The
// "overall" kind folds into the external count.
func summarizeKT(subjects []Subject) KTSummary {
	kt := KTSummary{FailedSubjects: []string{}}
	for _, s := range subjects {
		if s.IsKT {
			kt.TotalKT++
			kt.FailedSubjects = append(kt.FailedSubjects, s.Name)
		}
		if s.KTType == nil {
			continue
		}
		switch *s.KTType {
		case "internal":
			kt.InternalKT++
		case "external", "overall":
			kt.ExternalKT++
		case "termWork":
			kt.TermWorkKT++
		case "oral":
			kt.OralKT++
		}
	}
	kt.HasKT = kt.TotalKT > 0
	return kt
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
