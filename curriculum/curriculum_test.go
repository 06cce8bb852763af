package curriculum

import "testing"

func TestSubjectOrdinalsContiguous(t *testing.T) {
	if Count() != 14 {
		t.Fatalf("expected 14 subjects, got %d", Count())
	}
	for i := 0; i < Count(); i++ {
		s, ok := At(i)
		if !ok {
			t.Fatalf("At(%d): not found", i)
		}
		if s.Ordinal != i {
			t.Errorf("subject %s: ordinal %d stored at index %d", s.Code, s.Ordinal, i)
		}
	}
	if _, ok := At(Count()); ok {
		t.Error("At(Count()) should report not found")
	}
	if _, ok := At(-1); ok {
		t.Error("At(-1) should report not found")
	}
}

func TestName(t *testing.T) {
	if got := Name("10423"); got != "C Programming" {
		t.Errorf("Name(10423): got %q", got)
	}
	if got := Name("99999"); got != "99999" {
		t.Errorf("unknown code should fall back to the code, got %q", got)
	}
}

func TestComponentRowProperties(t *testing.T) {
	tests := []struct {
		component Component
		prefix    string
		max       int
		name      string
	}{
		{TermWork, "T1", 8, "termWork"},
		{Oral, "O1", 3, "oral"},
		{External, "E1", 6, "external"},
		{Internal, "I1", 7, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.component.Prefix(); got != tt.prefix {
				t.Errorf("prefix: got %q, want %q", got, tt.prefix)
			}
			if got := tt.component.MaxValues(); got != tt.max {
				t.Errorf("max values: got %d, want %d", got, tt.max)
			}
			if got := tt.component.String(); got != tt.name {
				t.Errorf("name: got %q, want %q", got, tt.name)
			}
		})
	}
}

func TestColumnMappings(t *testing.T) {
	tests := []struct {
		name      string
		component Component
		ordinal   int
		wantPos   int
		wantOK    bool
	}{
		{"math has term work at column 0", TermWork, 0, 0, true},
		{"c programming term work last column", TermWork, 12, 7, true},
		{"applied physics has no term work", TermWork, 1, 0, false},
		{"mechanics lab oral first", Oral, 7, 0, true},
		{"electronics lab oral second", Oral, 8, 1, true},
		{"c programming oral third", Oral, 12, 2, true},
		{"math has no oral", Oral, 0, 0, false},
		{"math external first", External, 0, 0, true},
		{"ethics external last", External, 9, 5, true},
		{"physics lab has no external", External, 5, 0, false},
		{"induction has no external", External, 13, 0, false},
		{"induction internal last", Internal, 13, 6, true},
		{"workshop has no internal", Internal, 11, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ok := Column(tt.component, tt.ordinal)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if ok && pos != tt.wantPos {
				t.Errorf("pos: got %d, want %d", pos, tt.wantPos)
			}
		})
	}
}

func TestEveryMappedColumnWithinRowCapacity(t *testing.T) {
	for _, c := range Components() {
		for ord := 0; ord < Count(); ord++ {
			pos, ok := Column(c, ord)
			if !ok {
				continue
			}
			if pos >= c.MaxValues() {
				t.Errorf("%s ordinal %d maps to column %d beyond row capacity %d",
					c, ord, pos, c.MaxValues())
			}
		}
	}
}
