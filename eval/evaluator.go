package eval

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/muresults/gazette"
)

const (
	maxKeySamples      = 5
	maxMismatchSamples = 3
	sgpaTolerance      = 0.01
)

// FieldStat is one field's match count over the common records.
type FieldStat struct {
	Field   string  `json:"field"`
	Matched int     `json:"matched"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// Mismatch is one common record whose totals disagree between the two sides.
type Mismatch struct {
	Key      string  `json:"key"`
	RefMarks int     `json:"ref_marks"`
	GotMarks int     `json:"got_marks"`
	RefSGPA  float64 `json:"ref_sgpa"`
	GotSGPA  float64 `json:"got_sgpa"`
	RefName  string  `json:"ref_name"`
	GotName  string  `json:"got_name"`
}

// Report holds the results of one comparison run.
type Report struct {
	ReferenceCount int         `json:"reference_count"`
	ParsedCount    int         `json:"parsed_count"`
	Common         int         `json:"common"`
	Missing        int         `json:"missing"`
	Extra          int         `json:"extra"`
	MissingSamples []KeySample `json:"missing_samples,omitempty"`
	ExtraSamples   []KeySample `json:"extra_samples,omitempty"`
	Fields         []FieldStat `json:"fields,omitempty"`
	SubjectTotals  FieldStat   `json:"subject_totals"`
	Mismatches     []Mismatch  `json:"mismatches,omitempty"`
}

// Compare evaluates parsed records against a reference mapping. Identity
// fields match on trimmed string equality; the reference side's name may
// carry a "repeater" marker which is stripped before comparing; SGPA
// matches within the tolerance.
func Compare(ref Reference, parsed map[string]*gazette.Student) *Report {
	report := &Report{
		ReferenceCount: len(ref),
		ParsedCount:    len(parsed),
	}

	var common, missing, extra []string
	for key := range ref {
		if _, ok := parsed[key]; ok {
			common = append(common, key)
		} else {
			missing = append(missing, key)
		}
	}
	for key := range parsed {
		if _, ok := ref[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(common)
	sort.Strings(missing)
	sort.Strings(extra)

	report.Common = len(common)
	report.Missing = len(missing)
	report.Extra = len(extra)
	report.MissingSamples = keySamples(missing, ref)
	report.ExtraSamples = keySamples(extra, parsed)

	if len(common) > 0 {
		report.Fields, report.SubjectTotals = fieldAccuracy(common, ref, parsed)
		report.Mismatches = sampleMismatches(common, ref, parsed)
	}

	slog.Info("eval: comparison complete",
		"common", report.Common,
		"missing", report.Missing,
		"extra", report.Extra)

	return report
}

func keySamples(keys []string, side map[string]*gazette.Student) []KeySample {
	if len(keys) > maxKeySamples {
		keys = keys[:maxKeySamples]
	}

	samples := make([]KeySample, 0, len(keys))
	for _, key := range keys {
		s := side[key]
		samples = append(samples, KeySample{
			Key:        key,
			Name:       s.Name,
			SeatNumber: s.SeatNumber,
		})
	}
	return samples
}

func fieldAccuracy(common []string, ref Reference, parsed map[string]*gazette.Student) ([]FieldStat, FieldStat) {
	fields := []string{"name", "seatNumber", "gender", "totalMarks", "result", "sgpa", "subjects_count", "ern"}
	matched := make(map[string]int, len(fields))
	subTotals := FieldStat{Field: "subject_totals"}

	for _, key := range common {
		old, cur := ref[key], parsed[key]

		if normName(old.Name, true) == normName(cur.Name, false) {
			matched["name"]++
		}
		if strings.TrimSpace(old.SeatNumber) == strings.TrimSpace(cur.SeatNumber) {
			matched["seatNumber"]++
		}
		if trimmed(old.Gender) == trimmed(cur.Gender) {
			matched["gender"]++
		}
		if old.TotalMarks == cur.TotalMarks {
			matched["totalMarks"]++
		}
		if strings.TrimSpace(old.Result) == strings.TrimSpace(cur.Result) {
			matched["result"]++
		}
		if math.Abs(old.SGPA-cur.SGPA) < sgpaTolerance {
			matched["sgpa"]++
		}
		if len(old.Subjects) == len(cur.Subjects) {
			matched["subjects_count"]++
		}
		if trimmed(old.ERN) == trimmed(cur.ERN) {
			matched["ern"]++
		}

		n := len(old.Subjects)
		if len(cur.Subjects) < n {
			n = len(cur.Subjects)
		}
		for j := 0; j < n; j++ {
			subTotals.Total++
			if old.Subjects[j].Marks.Total == cur.Subjects[j].Marks.Total {
				subTotals.Matched++
			}
		}
	}

	stats := make([]FieldStat, len(fields))
	for i, field := range fields {
		stats[i] = FieldStat{
			Field:   field,
			Matched: matched[field],
			Total:   len(common),
			Percent: percent(matched[field], len(common)),
		}
	}
	subTotals.Percent = percent(subTotals.Matched, subTotals.Total)
	return stats, subTotals
}

func sampleMismatches(common []string, ref Reference, parsed map[string]*gazette.Student) []Mismatch {
	var samples []Mismatch
	for _, key := range common {
		if len(samples) >= maxMismatchSamples {
			break
		}
		old, cur := ref[key], parsed[key]
		if old.TotalMarks == cur.TotalMarks && math.Abs(old.SGPA-cur.SGPA) <= sgpaTolerance {
			continue
		}
		samples = append(samples, Mismatch{
			Key:      key,
			RefMarks: old.TotalMarks,
			GotMarks: cur.TotalMarks,
			RefSGPA:  old.SGPA,
			GotSGPA:  cur.SGPA,
			RefName:  old.Name,
			GotName:  cur.Name,
		})
	}
	return samples
}

// FormatReport renders a human-readable comparison report.
func FormatReport(r *Report) string {
	var b strings.Builder
	b.WriteString("=== Accuracy Comparison ===\n")
	fmt.Fprintf(&b, "Reference: %d students | Parsed: %d students\n", r.ReferenceCount, r.ParsedCount)
	fmt.Fprintf(&b, "Common: %d | Missing: %d | Extra: %d\n", r.Common, r.Missing, r.Extra)

	if len(r.MissingSamples) > 0 {
		fmt.Fprintf(&b, "\nMissing keys (%d of %d):\n", len(r.MissingSamples), r.Missing)
		for _, s := range r.MissingSamples {
			fmt.Fprintf(&b, "  - %s: %s (seat %s)\n", s.Key, s.Name, s.SeatNumber)
		}
	}
	if len(r.ExtraSamples) > 0 {
		fmt.Fprintf(&b, "\nExtra keys (%d of %d):\n", len(r.ExtraSamples), r.Extra)
		for _, s := range r.ExtraSamples {
			fmt.Fprintf(&b, "  + %s: %s (seat %s)\n", s.Key, s.Name, s.SeatNumber)
		}
	}

	if r.Common > 0 {
		fmt.Fprintf(&b, "\nField accuracy over %d common students:\n", r.Common)
		for _, f := range r.Fields {
			fmt.Fprintf(&b, "  %-15s %d/%d (%.1f%%)\n", f.Field+":", f.Matched, f.Total, f.Percent)
		}
		if r.SubjectTotals.Total > 0 {
			fmt.Fprintf(&b, "  %-15s %d/%d (%.1f%%)\n", r.SubjectTotals.Field+":",
				r.SubjectTotals.Matched, r.SubjectTotals.Total, r.SubjectTotals.Percent)
		}
	}

	if len(r.Mismatches) > 0 {
		b.WriteString("\nSample mismatches:\n")
		for _, m := range r.Mismatches {
			fmt.Fprintf(&b, "  %s:\n", m.Key)
			fmt.Fprintf(&b, "    marks: ref=%d got=%d\n", m.RefMarks, m.GotMarks)
			fmt.Fprintf(&b, "    sgpa:  ref=%g got=%g\n", m.RefSGPA, m.GotSGPA)
			fmt.Fprintf(&b, "    name:  ref=%q got=%q\n", m.RefName, m.GotName)
		}
	}

	return b.String()
}

func percent(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

// normName lowercases and trims a student name. The reference side of a
// comparison may suffix names with a repeater marker; stripRepeater removes
// it so renamed repeat attempts still match.
func normName(name string, stripRepeater bool) string {
	s := strings.ToLower(name)
	if stripRepeater {
		s = strings.ReplaceAll(s, "repeater", "")
	}
	return strings.TrimSpace(s)
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
