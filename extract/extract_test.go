package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	for _, format := range []string{"pdf", "txt"} {
		if _, err := r.Get(format); err != nil {
			t.Errorf("Get(%q): %v", format, err)
		}
	}

	if _, err := r.Get("docx"); err == nil {
		t.Error("Get(docx): expected an error")
	}
}

type fakeExtractor struct{}

func (f *fakeExtractor) SupportedFormats() []string { return []string{"fake"} }
func (f *fakeExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	return &Document{Lines: []string{"one"}, Method: "fake"}, nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register("fake", &fakeExtractor{})

	x, err := r.Get("fake")
	if err != nil {
		t.Fatalf("Get(fake): %v", err)
	}
	doc, err := x.Extract(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}
	if doc.Method != "fake" {
		t.Errorf("method: got %q, want %q", doc.Method, "fake")
	}
}

// ---------------------------------------------------------------------------
// Text extraction
// ---------------------------------------------------------------------------

func TestTextExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gazette.txt")
	content := "1401763 AAYUSH RAMESH KAPADIA Regular\r\nT1 10 11 12\n\nTOT 60 7 A"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	doc, err := (&TextExtractor{}).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("extracting: %v", err)
	}

	want := []string{"1401763 AAYUSH RAMESH KAPADIA Regular", "T1 10 11 12", "", "TOT 60 7 A"}
	if len(doc.Lines) != len(want) {
		t.Fatalf("lines: got %d, want %d\n%q", len(doc.Lines), len(want), doc.Lines)
	}
	for i, line := range want {
		if doc.Lines[i] != line {
			t.Errorf("line %d: got %q, want %q", i, doc.Lines[i], line)
		}
	}
	if doc.Method != "text" {
		t.Errorf("method: got %q, want text", doc.Method)
	}
	if doc.Pages != 0 {
		t.Errorf("pages: got %d, want 0", doc.Pages)
	}
}

func TestTextExtractMissingFile(t *testing.T) {
	_, err := (&TextExtractor{}).Extract(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

// ---------------------------------------------------------------------------
// PDF extraction
// ---------------------------------------------------------------------------

func TestPDFExtractCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7 not really a pdf"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := (&PDFExtractor{}).Extract(context.Background(), path)
	if err == nil {
		t.Fatal("expected an error for a corrupt PDF")
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("a\n\n  b  \nc\n")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
