// Command parse runs the gazette engine over a single document and saves
// the parsed records as JSON.
//
// The output maps each record key (enrollment reference number when known,
// seat number otherwise) to the full student record, and can be fed back to
// cmd/eval as a reference. Optional flags also export an Excel workbook and
// an HTML chart page.
//
// Usage:
//
//	go run ./cmd/parse -in gazette.pdf
//	go run ./cmd/parse -in gazette.pdf -out run1.json -xlsx results.xlsx -chart charts.html
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/muresults/gazette"
	"github.com/muresults/gazette/export"
	"github.com/muresults/gazette/stats"
)

var (
	inPath     = flag.String("in", "", "Gazette document to parse (PDF or plain text)")
	outPath    = flag.String("out", "parsed_results.json", "Destination for the parsed record mapping")
	xlsxPath   = flag.String("xlsx", "", "Optional Excel workbook destination")
	chartPath  = flag.String("chart", "", "Optional HTML chart page destination")
	configPath = flag.String("config", "", "Path to config file (JSON or YAML)")
	dbPath     = flag.String("db", "", "Optional SQLite path for archiving the parsed run")
	workers    = flag.Int("workers", 0, "Parser worker count (0 uses the config default)")
)

func main() {
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: parse -in <gazette> [-out parsed_results.json] [-xlsx results.xlsx] [-chart charts.html]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

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

	res, err := engine.ParseFile(ctx, *inPath)
	if err != nil {
		log.Fatalf("parsing %s: %v", *inPath, err)
	}

	students := res.Students()
	analysis := stats.Compute(students)

	fmt.Fprintf(os.Stderr, "Parsed %d students from %d blocks (%d pages, %d lines) in %s\n",
		len(students), res.Blocks, res.Pages, res.LineCount, res.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Pass rate: %.2f%% (%d/%d), students with KT: %d\n",
		analysis.PassPercentage, analysis.PassedCount, analysis.TotalStudents, analysis.StudentsWithKT)
	for _, f := range res.Failures {
		fmt.Fprintf(os.Stderr, "  block at line %d failed: %s\n", f.Line, f.Message)
	}

	data, err := json.MarshalIndent(res.Records, "", "  ")
	if err != nil {
		log.Fatalf("encoding records: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		log.Fatalf("writing %s: %v", *outPath, err)
	}
	fmt.Fprintf(os.Stderr, "Records written to %s\n", *outPath)

	if *xlsxPath != "" {
		if err := export.WriteFile(*xlsxPath, res); err != nil {
			log.Fatalf("exporting workbook: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Workbook written to %s\n", *xlsxPath)
	}

	if *chartPath != "" {
		title := fmt.Sprintf("Gazette Analysis: %s", res.SourceFile)
		if err := stats.WriteChartsFile(*chartPath, analysis, title); err != nil {
			log.Fatalf("rendering charts: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Charts written to %s\n", *chartPath)
	}
}
