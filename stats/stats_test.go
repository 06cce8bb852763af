package stats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/curriculum"
)

func sampleStudent(marks int, sgpa float64, result string, kts int) *gazette.Student {
	s := &gazette.Student{
		SeatNumber: "1401763",
		Name:       "Test Student",
		TotalMarks: marks,
		MaxMarks:   curriculum.MaxMarks,
		Result:     result,
		SGPA:       sgpa,
	}
	s.KT.TotalKT = kts
	s.KT.HasKT = kts > 0
	s.KT.FailedSubjects = []string{}
	return s
}

func TestComputeEmpty(t *testing.T) {
	a := Compute(nil)
	if a.TotalStudents != 0 {
		t.Errorf("TotalStudents = %d, want 0", a.TotalStudents)
	}
	if a.PassPercentage != 0 {
		t.Errorf("PassPercentage = %v, want 0", a.PassPercentage)
	}
	if a.MarksDistribution.Fail != 0 {
		t.Errorf("Fail bucket = %d, want 0", a.MarksDistribution.Fail)
	}
}

func TestCompute(t *testing.T) {
	students := []*gazette.Student{
		sampleStudent(680, 8.2, "PASS", 0),
		sampleStudent(500, 6.5, "PASS", 0),
		sampleStudent(310, 0, "FAILED", 3),
	}

	a := Compute(students)

	if a.TotalStudents != 3 {
		t.Fatalf("TotalStudents = %d, want 3", a.TotalStudents)
	}
	if a.PassedCount != 2 || a.FailedCount != 1 {
		t.Errorf("counts = %d passed, %d failed, want 2 and 1", a.PassedCount, a.FailedCount)
	}
	if a.PassPercentage != 66.67 {
		t.Errorf("PassPercentage = %v, want 66.67", a.PassPercentage)
	}
	if a.StudentsWithKT != 1 {
		t.Errorf("StudentsWithKT = %d, want 1", a.StudentsWithKT)
	}
	if a.AverageKTPerStudent != 3 {
		t.Errorf("AverageKTPerStudent = %v, want 3", a.AverageKTPerStudent)
	}
	if a.HighestMarks != 680 || a.LowestMarks != 310 {
		t.Errorf("marks extremes = %d..%d, want 310..680", a.LowestMarks, a.HighestMarks)
	}
	if a.AverageMarks != 497 {
		t.Errorf("AverageMarks = %d, want 497", a.AverageMarks)
	}
	if a.AverageSGPA != 7.35 {
		t.Errorf("AverageSGPA = %v, want 7.35", a.AverageSGPA)
	}

	wantMarks := MarksDistribution{Distinction: 1, FirstClass: 1, Fail: 1}
	if a.MarksDistribution != wantMarks {
		t.Errorf("MarksDistribution = %+v, want %+v", a.MarksDistribution, wantMarks)
	}
	wantKT := KTDistribution{NoKT: 2, ThreeOrMoreKT: 1}
	if a.KTDistribution != wantKT {
		t.Errorf("KTDistribution = %+v, want %+v", a.KTDistribution, wantKT)
	}
}

// The bands above the pass class ignore the overall result; only the
// 40-50% band demands a PASS.
func TestComputeDistributionEdges(t *testing.T) {
	students := []*gazette.Student{
		sampleStudent(600, 7.5, "PASS", 0),   // exactly 75%
		sampleStudent(480, 0, "FAILED", 2),   // exactly 60%, failed overall
		sampleStudent(400, 5.0, "PASS", 0),   // exactly 50%
		sampleStudent(320, 4.0, "PASS", 0),   // exactly 40%, passed
		sampleStudent(320, 0, "FAILED", 4),   // exactly 40%, failed
	}

	a := Compute(students)

	want := MarksDistribution{
		Distinction: 1,
		FirstClass:  1,
		SecondClass: 1,
		PassClass:   1,
		Fail:        1,
	}
	if a.MarksDistribution != want {
		t.Errorf("MarksDistribution = %+v, want %+v", a.MarksDistribution, want)
	}
}

func TestComputeKTDistribution(t *testing.T) {
	students := []*gazette.Student{
		sampleStudent(500, 6.0, "PASS", 0),
		sampleStudent(450, 5.5, "PASS", 1),
		sampleStudent(420, 5.0, "FAILED", 2),
		sampleStudent(380, 0, "FAILED", 3),
		sampleStudent(300, 0, "FAILED", 5),
	}

	a := Compute(students)

	want := KTDistribution{NoKT: 1, OneKT: 1, TwoKT: 1, ThreeOrMoreKT: 2}
	if a.KTDistribution != want {
		t.Errorf("KTDistribution = %+v, want %+v", a.KTDistribution, want)
	}
	if a.StudentsWithKT != 4 {
		t.Errorf("StudentsWithKT = %d, want 4", a.StudentsWithKT)
	}
	// 11 backlogs over the 4 students carrying them.
	if a.AverageKTPerStudent != 2.75 {
		t.Errorf("AverageKTPerStudent = %v, want 2.75", a.AverageKTPerStudent)
	}
}

// Absent totals and SGPAs are zeros in the record; they must not drag
// the averages or the extremes.
func TestComputeSkipsZeroValues(t *testing.T) {
	students := []*gazette.Student{
		sampleStudent(0, 0, "FAILED", 6),
		sampleStudent(400, 5.0, "PASS", 0),
	}

	a := Compute(students)

	if a.HighestMarks != 400 || a.LowestMarks != 400 {
		t.Errorf("marks extremes = %d..%d, want 400..400", a.LowestMarks, a.HighestMarks)
	}
	if a.AverageMarks != 400 {
		t.Errorf("AverageMarks = %d, want 400", a.AverageMarks)
	}
	if a.AverageSGPA != 5.0 {
		t.Errorf("AverageSGPA = %v, want 5.0", a.AverageSGPA)
	}
	if a.MarksDistribution.Fail != 1 {
		t.Errorf("Fail bucket = %d, want 1", a.MarksDistribution.Fail)
	}
}

func TestRenderCharts(t *testing.T) {
	a := Compute([]*gazette.Student{
		sampleStudent(680, 8.2, "PASS", 0),
		sampleStudent(310, 0, "FAILED", 3),
	})

	var buf bytes.Buffer
	if err := RenderCharts(&buf, a, "Gazette Analysis"); err != nil {
		t.Fatalf("rendering charts: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Gazette Analysis", "Marks Distribution", "KT Distribution", "echarts"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart page missing %q", want)
		}
	}
}

func TestWriteChartsFile(t *testing.T) {
	a := Compute([]*gazette.Student{sampleStudent(500, 6.5, "PASS", 0)})

	path := filepath.Join(t.TempDir(), "charts.html")
	if err := WriteChartsFile(path, a, "Session Report"); err != nil {
		t.Fatalf("writing chart file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading chart file: %v", err)
	}
	if !strings.Contains(string(data), "Session Report") {
		t.Errorf("chart file missing page title")
	}
}
