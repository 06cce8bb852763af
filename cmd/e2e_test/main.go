// Command e2e_test drives a synthetic gazette through the whole pipeline:
// engine construction, text extraction, block assembly, run archiving, and
// analysis. It exits non-zero on the first discrepancy, so it can gate a
// release the way a smoke test would.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/stats"
)

// sampleBlock builds one complete student block in gazette layout: a header
// line, four component rows, a subject-total row, and the TOT line.
func sampleBlock(seat, name, ern string) []string {
	header := seat + " " + name + " Regular MALE"
	if ern != "" {
		header += " (" + ern + ")"
	}
	header += " MU-0524: Atharva College Of Engineering"

	tot := "TOT " + strings.Repeat("60 7 A 1.5 10.5 ", 14) + "21.0 147.0 7.5"
	return []string{
		header,
		"T1 10 11 12 13 14 15 16 17",
		"O1 20 21 22",
		"E1 40 41 42 43 44 45",
		"I1 30 31 32 33 34 35 36 (455) PASS",
		tot,
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	tmpDir, _ := os.MkdirTemp("", "gazette-e2e-*")
	defer os.RemoveAll(tmpDir)

	cfg := gazette.DefaultConfig()
	cfg.DBPath = filepath.Join(tmpDir, "runs.db")
	cfg.Workers = 4

	engine, err := gazette.New(cfg)
	if err != nil {
		fail("creating engine: %v", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Build a three-student gazette and write it out as a text document so
	// the parse goes through the file extraction path.
	var lines []string
	lines = append(lines, "UNIVERSITY OF MUMBAI", "RESULT GAZETTE", "")
	lines = append(lines, sampleBlock("1401763", "AAYUSH RAMESH KAPADIA", "MU0341120250220778")...)
	lines = append(lines, sampleBlock("1401764", "PRIYA SHARMA", "MU0341120250220779")...)
	lines = append(lines, sampleBlock("1401765", "ROHAN PATIL", "")...)

	docPath := filepath.Join(tmpDir, "gazette.txt")
	if err := os.WriteFile(docPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		fail("writing document: %v", err)
	}

	fmt.Fprintf(os.Stderr, "\n=== PARSING %s ===\n", docPath)
	res, err := engine.ParseFile(ctx, docPath)
	if err != nil {
		fail("parse error: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Parsed %d students from %d blocks in %s\n",
		len(res.Records), res.Blocks, res.Elapsed.Round(time.Millisecond))

	if len(res.Records) != 3 {
		fail("records: got %d, want 3", len(res.Records))
	}
	if len(res.Failures) != 0 {
		fail("failures: got %v, want none", res.Failures)
	}
	wantOrder := []string{"MU0341120250220778", "MU0341120250220779", "1401765"}
	for i, k := range wantOrder {
		if res.Order[i] != k {
			fail("order[%d]: got %q, want %q", i, res.Order[i], k)
		}
	}
	st := res.Records["MU0341120250220778"]
	if st.Name != "Aayush Ramesh Kapadia" || st.TotalMarks != 455 || st.Result != "PASS" {
		fail("first student off: name=%q marks=%d result=%q", st.Name, st.TotalMarks, st.Result)
	}

	fmt.Fprintf(os.Stderr, "\n=== ANALYSIS ===\n")
	analysis := stats.Compute(res.Students())
	fmt.Fprintf(os.Stderr, "Pass rate %.2f%% (%d/%d), KT students %d\n",
		analysis.PassPercentage, analysis.PassedCount, analysis.TotalStudents, analysis.StudentsWithKT)
	if analysis.PassedCount != 3 {
		fail("passed: got %d, want 3", analysis.PassedCount)
	}

	fmt.Fprintf(os.Stderr, "\n=== ARCHIVE ===\n")
	runs, err := engine.Store().ListRuns(ctx)
	if err != nil {
		fail("listing runs: %v", err)
	}
	if len(runs) != 1 {
		fail("archived runs: got %d, want 1", len(runs))
	}
	rows, err := engine.Store().Students(ctx, runs[0].ID)
	if err != nil {
		fail("loading archived students: %v", err)
	}
	if len(rows) != 3 {
		fail("archived students: got %d, want 3", len(rows))
	}
	fmt.Fprintf(os.Stderr, "Run %d archived with %d students\n", runs[0].ID, len(rows))

	// Print the parsed records to stdout in document order.
	type studentView struct {
		Key        string  `json:"key"`
		SeatNumber string  `json:"seatNumber"`
		Name       string  `json:"name"`
		TotalMarks int     `json:"totalMarks"`
		Result     string  `json:"result"`
		SGPA       float64 `json:"sgpa"`
		Subjects   int     `json:"subjects"`
		TotalKT    int     `json:"totalKT"`
	}

	var views []studentView
	for _, k := range res.Order {
		s := res.Records[k]
		views = append(views, studentView{
			Key:        k,
			SeatNumber: s.SeatNumber,
			Name:       s.Name,
			TotalMarks: s.TotalMarks,
			Result:     s.Result,
			SGPA:       s.SGPA,
			Subjects:   len(s.Subjects),
			TotalKT:    s.KT.TotalKT,
		})
	}

	out, _ := json.MarshalIndent(views, "", "  ")
	fmt.Println(string(out))
	fmt.Fprintln(os.Stderr, "\nOK")
}
