// Command eval parses a gazette document and compares the result against a
// previously saved reference mapping, reporting per-field accuracy.
//
// Each invocation creates a timestamped directory under evals/runs/ holding
// the comparison report, run metadata, and a full debug log.
//
// Usage:
//
//	go run ./cmd/eval -in gazette.pdf -reference parsed_results.json
//	go run ./cmd/eval -in gazette.txt -reference parsed_results.json -output report.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/eval"
)

var (
	inPath     = flag.String("in", "", "Gazette document to parse (PDF or plain text)")
	refPath    = flag.String("reference", "", "Reference JSON mapping of record key to student")
	outPath    = flag.String("output", "", "Optional path for an extra copy of the report")
	configPath = flag.String("config", "", "Path to config file (JSON or YAML)")
	dbPath     = flag.String("db", "", "Optional SQLite path for archiving the parsed run")
	workers    = flag.Int("workers", 0, "Parser worker count (0 uses the config default)")
)

func main() {
	flag.Parse()

	if *inPath == "" || *refPath == "" {
		fmt.Fprintln(os.Stderr, "usage: eval -in <gazette> -reference <saved.json> [-output report.json]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	runDir := createRunDir()
	logFile := setupLogTee(runDir)
	defer logFile.Close()

	fmt.Fprintf(os.Stderr, "Run directory: %s\n", runDir)

	metadata := map[string]interface{}{
		"git_commit": gitCommit(),
		"go_version": runtime.Version(),
		"timestamp":  time.Now().Format(time.RFC3339),
		"document":   *inPath,
		"reference":  *refPath,
	}
	writeJSON(filepath.Join(runDir, "metadata.json"), metadata)

	cfg := gazette.DefaultConfig()
	if *configPath != "" {
		loaded, err := gazette.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	engine, err := gazette.New(cfg)
	if err != nil {
		log.Fatalf("creating engine: %v", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n=== PARSING %s ===\n", *inPath)
	res, err := engine.ParseFile(ctx, *inPath)
	if err != nil {
		log.Fatalf("parsing %s: %v", *inPath, err)
	}
	fmt.Fprintf(os.Stderr, "Parsed %d students from %d blocks in %s\n",
		len(res.Records), res.Blocks, res.Elapsed.Round(time.Millisecond))

	metadata["parse_ms"] = res.Elapsed.Milliseconds()
	metadata["students_parsed"] = len(res.Records)
	metadata["blocks"] = res.Blocks
	metadata["failed_blocks"] = len(res.Failures)
	writeJSON(filepath.Join(runDir, "metadata.json"), metadata)

	if len(res.Failures) > 0 {
		writeJSON(filepath.Join(runDir, "failures.json"), res.Failures)
		fmt.Fprintf(os.Stderr, "%d blocks failed to assemble; details in failures.json\n", len(res.Failures))
	}

	ref, err := eval.LoadReference(*refPath)
	if err != nil {
		log.Fatalf("loading reference: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Reference holds %d students\n", len(ref))

	fmt.Fprintf(os.Stderr, "\n=== COMPARING ===\n")
	report := eval.Compare(ref, res.Records)

	metadata["common"] = report.Common
	metadata["missing"] = report.Missing
	metadata["extra"] = report.Extra
	writeJSON(filepath.Join(runDir, "metadata.json"), metadata)

	fmt.Println(eval.FormatReport(report))

	reportPath := filepath.Join(runDir, "report.json")
	writeJSON(reportPath, report)
	fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)

	if *outPath != "" {
		writeJSON(*outPath, report)
		fmt.Fprintf(os.Stderr, "Report copied to %s\n", *outPath)
	}
}

// createRunDir creates a timestamped directory under evals/runs for this
// invocation's artifacts.
func createRunDir() string {
	dir := filepath.Join("evals", "runs", time.Now().Format("2006-01-02_15-04-05"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("creating run dir: %v", err)
	}
	return dir
}

// setupLogTee mirrors slog output to stderr and a debug log inside the run
// dir, so a run can be inspected after the terminal scrolls away.
func setupLogTee(runDir string) *os.File {
	f, err := os.Create(filepath.Join(runDir, "eval.log"))
	if err != nil {
		log.Fatalf("creating log file: %v", err)
	}
	w := io.MultiWriter(os.Stderr, f)
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshaling %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Fatalf("writing %s: %v", path, err)
	}
}
