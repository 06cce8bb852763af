package gazette

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStudentKey(t *testing.T) {
	ern := "MU0341120250220778"
	empty := ""

	tests := []struct {
		name    string
		student Student
		want    string
	}{
		{"enrollment reference preferred", Student{SeatNumber: "1401763", ERN: &ern}, ern},
		{"seat number fallback", Student{SeatNumber: "1401763"}, "1401763"},
		{"empty reference falls back", Student{SeatNumber: "1401763", ERN: &empty}, "1401763"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.student.Key(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// The wire shape keeps camelCase keys, explicit nulls for absent values,
// and an empty array (never null) for failedSubjects.
func TestStudentJSONShape(t *testing.T) {
	oral := 22
	st := Student{
		SeatNumber: "1401763",
		Name:       "Aayush Ramesh Kapadia",
		College:    "Atharva College Of Engineering",
		Status:     "Regular",
		Subjects: []Subject{
			{
				Code: "10418",
				Name: "Engineering Mechanics Lab",
				Marks: Marks{
					Oral:       &oral,
					Total:      47,
					GradePoint: 9,
					Grade:      "A+",
					Credits:    1,
					Status:     "P",
				},
			},
		},
		TotalMarks: 455,
		MaxMarks:   800,
		Result:     "PASS",
		SGPA:       7.5,
		KT:         KTSummary{FailedSubjects: []string{}},
	}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"seatNumber":"1401763"`,
		`"gender":null`,
		`"ern":null`,
		`"cgpa":null`,
		`"termWork":null`,
		`"oral":22`,
		`"gradePoint":9`,
		`"isKT":false`,
		`"ktType":null`,
		`"failedSubjects":[]`,
		`"hasKT":false`,
		`"maxMarks":800`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("marshaled record missing %s\n%s", want, out)
		}
	}
	if strings.Contains(out, `"failedSubjects":null`) {
		t.Error("failedSubjects must never be null")
	}
}
