package gazette

import "testing"

func TestResultSetPutAndGet(t *testing.T) {
	rs := NewResultSet()

	a := &Student{SeatNumber: "1401763"}
	b := &Student{SeatNumber: "1401764"}
	rs.Put("A", a)
	rs.Put("B", b)

	if rs.Len() != 2 {
		t.Fatalf("len: got %d, want 2", rs.Len())
	}
	got, ok := rs.Get("A")
	if !ok || got != a {
		t.Errorf("Get(A): got %v, %v", got, ok)
	}
	if _, ok := rs.Get("missing"); ok {
		t.Error("Get(missing): expected ok=false")
	}
}

func TestResultSetLastWriteWinsKeepsPosition(t *testing.T) {
	rs := NewResultSet()
	rs.Put("A", &Student{TotalMarks: 100})
	rs.Put("B", &Student{TotalMarks: 200})
	rs.Put("A", &Student{TotalMarks: 150})

	if rs.Len() != 2 {
		t.Fatalf("len: got %d, want 2", rs.Len())
	}
	keys := rs.Keys()
	if keys[0] != "A" || keys[1] != "B" {
		t.Errorf("keys: got %v, want [A B]", keys)
	}
	got, _ := rs.Get("A")
	if got.TotalMarks != 150 {
		t.Errorf("A total: got %d, want 150 (later write wins)", got.TotalMarks)
	}
}

func TestResultSetStudentsOrder(t *testing.T) {
	rs := NewResultSet()
	rs.Put("C", &Student{SeatNumber: "3"})
	rs.Put("A", &Student{SeatNumber: "1"})
	rs.Put("B", &Student{SeatNumber: "2"})

	students := rs.Students()
	want := []string{"3", "1", "2"}
	if len(students) != len(want) {
		t.Fatalf("students: got %d, want %d", len(students), len(want))
	}
	for i, seat := range want {
		if students[i].SeatNumber != seat {
			t.Errorf("students[%d]: got %q, want %q", i, students[i].SeatNumber, seat)
		}
	}
}

func TestResultSetCopies(t *testing.T) {
	rs := NewResultSet()
	rs.Put("A", &Student{})

	keys := rs.Keys()
	keys[0] = "mutated"
	if rs.Keys()[0] != "A" {
		t.Error("Keys must return a copy")
	}

	m := rs.Map()
	delete(m, "A")
	if _, ok := rs.Get("A"); !ok {
		t.Error("Map must return a copy")
	}
}
