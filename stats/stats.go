// Package stats computes the aggregate analysis object for a set of
// parsed student records: pass rates, backlog counts, and class-band
// distributions over the fixed aggregate maximum.
package stats

import (
	"math"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/curriculum"
)

// MarksDistribution buckets students by their percentage of the aggregate
// maximum. The bands cascade highest-first; only the 40-50% band requires
// an overall PASS, everything below lands in Fail.
type MarksDistribution struct {
	Distinction int `json:"distinction"`
	FirstClass  int `json:"firstClass"`
	SecondClass int `json:"secondClass"`
	PassClass   int `json:"passClass"`
	Fail        int `json:"fail"`
}

// KTDistribution buckets students by backlog count.
type KTDistribution struct {
	NoKT          int `json:"noKT"`
	OneKT         int `json:"oneKT"`
	TwoKT         int `json:"twoKT"`
	ThreeOrMoreKT int `json:"threeOrMoreKT"`
}

// Analysis is the aggregate summary of one parse run.
type Analysis struct {
	TotalStudents       int               `json:"totalStudents"`
	PassedCount         int               `json:"passedCount"`
	FailedCount         int               `json:"failedCount"`
	PassPercentage      float64           `json:"passPercentage"`
	StudentsWithKT      int               `json:"studentsWithKT"`
	AverageKTPerStudent float64           `json:"averageKTPerStudent"`
	HighestMarks        int               `json:"highestMarks"`
	LowestMarks         int               `json:"lowestMarks"`
	AverageMarks        int               `json:"averageMarks"`
	AverageSGPA         float64           `json:"averageSGPA"`
	MarksDistribution   MarksDistribution `json:"marksDistribution"`
	KTDistribution      KTDistribution    `json:"ktDistribution"`
}

// Compute summarizes the given records. Zero totals and zero SGPAs are
// treated as missing for the averages and extremes; the distributions
// count every student.
func Compute(students []*gazette.Student) Analysis {
	var a Analysis
	a.TotalStudents = len(students)
	if len(students) == 0 {
		return a
	}

	var (
		marksSum, totalKTs int
		sgpaSum            float64
		marksN, sgpaN      int
	)
	for _, s := range students {
		switch s.Result {
		case "PASS":
			a.PassedCount++
		case "FAILED":
			a.FailedCount++
		}

		if s.KT.HasKT {
			a.StudentsWithKT++
		}
		totalKTs += s.KT.TotalKT

		if s.TotalMarks > 0 {
			marksSum += s.TotalMarks
			marksN++
			if s.TotalMarks > a.HighestMarks {
				a.HighestMarks = s.TotalMarks
			}
			if a.LowestMarks == 0 || s.TotalMarks < a.LowestMarks {
				a.LowestMarks = s.TotalMarks
			}
		}
		if s.SGPA > 0 {
			sgpaSum += s.SGPA
			sgpaN++
		}

		pct := float64(s.TotalMarks) / float64(curriculum.MaxMarks) * 100
		switch {
		case pct >= 75:
			a.MarksDistribution.Distinction++
		case pct >= 60:
			a.MarksDistribution.FirstClass++
		case pct >= 50:
			a.MarksDistribution.SecondClass++
		case pct >= 40 && s.Result == "PASS":
			a.MarksDistribution.PassClass++
		default:
			a.MarksDistribution.Fail++
		}

		switch {
		case s.KT.TotalKT == 0:
			a.KTDistribution.NoKT++
		case s.KT.TotalKT == 1:
			a.KTDistribution.OneKT++
		case s.KT.TotalKT == 2:
			a.KTDistribution.TwoKT++
		default:
			a.KTDistribution.ThreeOrMoreKT++
		}
	}

	a.PassPercentage = round2(float64(a.PassedCount) / float64(a.TotalStudents) * 100)
	if a.StudentsWithKT > 0 {
		a.AverageKTPerStudent = round2(float64(totalKTs) / float64(a.StudentsWithKT))
	}
	if marksN > 0 {
		a.AverageMarks = int(math.RoundToEven(float64(marksSum) / float64(marksN)))
	}
	if sgpaN > 0 {
		a.AverageSGPA = round2(sgpaSum / float64(sgpaN))
	}
	return a
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
