package rows

import (
	"fmt"
	"strings"
	"testing"
)

// buildTotalsLine assembles a well-formed totals row with n subject groups
// followed by the aggregate credits, credit points and SGPA tail.
func buildTotalsLine(n int, credits, creditPoints, sgpa string) string {
	var b strings.Builder
	b.WriteString("TOT")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, " %d 9 A 2.0 18.0", 10+i)
	}
	fmt.Fprintf(&b, " %s %s %s", credits, creditPoints, sgpa)
	return b.String()
}

func TestParseTotalsFullLine(t *testing.T) {
	got := ParseTotals(buildTotalsLine(14, "23", "178.0", "7.73913"))

	if len(got.Entries) != 14 {
		t.Fatalf("entries: got %d, want 14", len(got.Entries))
	}
	if got.SGPA != 7.73913 {
		t.Errorf("sgpa: got %v, want 7.73913", got.SGPA)
	}
	if got.Credits != 23 {
		t.Errorf("aggregate credits: got %v, want 23", got.Credits)
	}
	if got.CreditPoints != 178.0 {
		t.Errorf("aggregate credit points: got %v, want 178.0", got.CreditPoints)
	}
	first := TotalsEntry{Total: 10, GradePoint: 9, Grade: "A", Credits: 2.0, CreditPoints: 18.0}
	if got.Entries[0] != first {
		t.Errorf("first entry: got %+v, want %+v", got.Entries[0], first)
	}
	if got.Entries[13].Total != 23 {
		t.Errorf("last entry total: got %d, want 23", got.Entries[13].Total)
	}
}

func TestParseTotalsGroups(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []TotalsEntry
		sgpa float64
	}{
		{
			name: "plus suffix stripped from total",
			line: "TOT 38+ 8 A 2.0 16.0 2.0 16.0 8.00000",
			want: []TotalsEntry{{Total: 38, GradePoint: 8, Grade: "A", Credits: 2.0, CreditPoints: 16.0}},
			sgpa: 8.0,
		},
		{
			name: "at-grace added to total",
			line: "TOT 18 @3 7 B+ 2.0 14.0 2.0 14.0 7.00000",
			want: []TotalsEntry{{Total: 21, GradePoint: 7, Grade: "B+", Credits: 2.0, CreditPoints: 14.0}},
			sgpa: 7.0,
		},
		{
			name: "detached plus merges into grade",
			line: "TOT 34 7 B + 2.0 14.0 2.0 14.0 7.00000",
			want: []TotalsEntry{{Total: 34, GradePoint: 7, Grade: "B+", Credits: 2.0, CreditPoints: 14.0}},
			sgpa: 7.0,
		},
		{
			name: "placeholder skipped without opening a group",
			line: "TOT ... 45 9 O 2.0 18.0 2.0 18.0 9.00000",
			want: []TotalsEntry{{Total: 45, GradePoint: 9, Grade: "O", Credits: 2.0, CreditPoints: 18.0}},
			sgpa: 9.0,
		},
		{
			name: "malformed grade abandons the group only",
			line: "TOT 45 9 X 2.0 18.0 38 8 A 2.0 16.0 4.0 34.0 7.50000",
			want: []TotalsEntry{{Total: 38, GradePoint: 8, Grade: "A", Credits: 2.0, CreditPoints: 16.0}},
			sgpa: 7.5,
		},
		{
			name: "malformed grade point restarts at the offending token",
			line: "TOT 45 X A 2.0 18.0 38 8 A 2.0 16.0 4.0 34.0 7.50000",
			want: []TotalsEntry{{Total: 38, GradePoint: 8, Grade: "A", Credits: 2.0, CreditPoints: 16.0}},
			sgpa: 7.5,
		},
		{
			name: "stray tokens resync one at a time",
			line: "TOT junk 45 9 A 2.0 18.0 foo 2.0 18.0 6.00000",
			want: []TotalsEntry{{Total: 45, GradePoint: 9, Grade: "A", Credits: 2.0, CreditPoints: 18.0}},
			sgpa: 6.0,
		},
		{
			name: "failing grade kept",
			line: "TOT 12 0 F 2.0 0.0 2.0 0.0 0.00000",
			want: []TotalsEntry{{Total: 12, GradePoint: 0, Grade: "F", Credits: 2.0, CreditPoints: 0.0}},
			sgpa: 0.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTotals(tt.line)
			if got.SGPA != tt.sgpa {
				t.Errorf("sgpa: got %v, want %v", got.SGPA, tt.sgpa)
			}
			if len(got.Entries) != len(tt.want) {
				t.Fatalf("entries: got %d (%+v), want %d", len(got.Entries), got.Entries, len(tt.want))
			}
			for i := range tt.want {
				if got.Entries[i] != tt.want[i] {
					t.Errorf("entry %d: got %+v, want %+v", i, got.Entries[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseTotalsTail(t *testing.T) {
	t.Run("last token above ten is not an sgpa", func(t *testing.T) {
		got := ParseTotals("TOT 45 9 A 2.0 18.0")
		if got.SGPA != 0 {
			t.Errorf("sgpa: got %v, want 0", got.SGPA)
		}
		if got.Credits != 0 || got.CreditPoints != 0 {
			t.Errorf("aggregates should stay 0, got %v/%v", got.Credits, got.CreditPoints)
		}
		if len(got.Entries) != 1 {
			t.Fatalf("entries: got %d, want 1", len(got.Entries))
		}
	})

	t.Run("boundary sgpa values accepted", func(t *testing.T) {
		for _, tail := range []string{"0.00000", "10.0", "0"} {
			got := ParseTotals("TOT 2.0 16.0 " + tail)
			want := 0.0
			if tail == "10.0" {
				want = 10.0
			}
			if got.SGPA != want {
				t.Errorf("tail %q: sgpa got %v, want %v", tail, got.SGPA, want)
			}
		}
	})

	t.Run("marker only", func(t *testing.T) {
		got := ParseTotals("TOT ")
		if len(got.Entries) != 0 || got.SGPA != 0 {
			t.Errorf("got %+v", got)
		}
	})
}
