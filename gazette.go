// Package gazette parses line-oriented university result gazettes into
// structured per-student records. The input is the text of a semester
// result report: repeating student blocks, each a header line followed by
// component mark rows and a totals row. The engine segments the text into
// blocks, assembles each block into a record, and merges the records in
// document order keyed by enrollment reference number.
package gazette

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/muresults/gazette/extract"
	"github.com/muresults/gazette/segment"
	"github.com/muresults/gazette/store"
)

// Engine is the main entry point for the gazette parser.
type Engine interface {
	// ParseFile extracts text lines from the document at path and parses
	// them into student records.
	ParseFile(ctx context.Context, path string, opts ...ParseOption) (*Result, error)

	// ParseLines parses an already-linearized gazette text. Callers that
	// extract text themselves (or synthesize it in tests) enter here.
	ParseLines(ctx context.Context, lines []string, opts ...ParseOption) (*Result, error)

	// Store returns the underlying run archive, nil when none is configured.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// Result is the output of one parse invocation.
type Result struct {
	// Records maps each student's stable key (enrollment reference number
	// when known, seat number otherwise) to the assembled record.
	Records map[string]*Student `json:"records"`
	// Order lists record keys by first appearance in the document.
	// A re-parsed student keeps the original position.
	Order []string `json:"order"`
	// Failures lists blocks whose assembly raised an unexpected error.
	// Structurally unusable blocks are dropped without a failure entry.
	Failures []BlockFailure `json:"failures,omitempty"`

	SourceFile string        `json:"sourceFile,omitempty"`
	Pages      int           `json:"pages,omitempty"`
	LineCount  int           `json:"lineCount"`
	Blocks     int           `json:"blocks"`
	Elapsed    time.Duration `json:"-"`
}

// Students returns the records in document order.
func (r *Result) Students() []*Student {
	out := make([]*Student, 0, len(r.Order))
	for _, k := range r.Order {
		if s, ok := r.Records[k]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ParseOption configures a single parse invocation.
type ParseOption func(*parseOptions)

type parseOptions struct {
	sourceName string
	workers    int
}

// WithSourceName overrides the source file name recorded on the result.
// Useful for uploads parsed from a temp file.
func WithSourceName(name string) ParseOption {
	return func(o *parseOptions) { o.sourceName = name }
}

// WithWorkers overrides the engine's block-assembly concurrency for this
// invocation.
func WithWorkers(n int) ParseOption {
	return func(o *parseOptions) { o.workers = n }
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg        Config
	extractors *extract.Registry
	store      *store.Store

	mu     sync.Mutex
	closed bool
}

// New creates a new gazette engine with the given configuration.
func New(cfg Config) (Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &engine{
		cfg:        cfg,
		extractors: extract.NewRegistry(),
	}

	if cfg.DBPath != "" {
		s, err := store.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		e.store = s
	}
	return e, nil
}

// ParseFile extracts and parses the document at path.
func (e *engine) ParseFile(ctx context.Context, path string, opts ...ParseOption) (*Result, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	options := applyParseOptions(opts)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading file info: %w", err)
	}
	if e.cfg.MaxUploadBytes > 0 && info.Size() > e.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), e.cfg.MaxUploadBytes)
	}

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(absPath), "."))
	x, err := e.extractors.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	filename := filepath.Base(absPath)
	slog.Info("parse: extracting text", "file", filename, "format", format)
	extractStart := time.Now()

	doc, err := x.Extract(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	slog.Info("parse: extraction complete",
		"file", filename, "method", doc.Method,
		"pages", doc.Pages, "lines", len(doc.Lines),
		"elapsed", time.Since(extractStart).Round(time.Millisecond))

	res, err := e.parse(ctx, doc.Lines, options)
	if err != nil {
		return nil, err
	}
	res.SourceFile = filename
	if options.sourceName != "" {
		res.SourceFile = options.sourceName
	}
	res.Pages = doc.Pages

	e.archive(ctx, res)
	return res, nil
}

// ParseLines parses pre-extracted gazette lines.
func (e *engine) ParseLines(ctx context.Context, lines []string, opts ...ParseOption) (*Result, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	options := applyParseOptions(opts)

	res, err := e.parse(ctx, lines, options)
	if err != nil {
		return nil, err
	}
	res.SourceFile = options.sourceName

	e.archive(ctx, res)
	return res, nil
}

// parse segments the lines into student blocks and assembles them,
// concurrently when more than one worker is allowed. Records merge into
// the result in document order regardless of assembly order.
func (e *engine) parse(ctx context.Context, lines []string, options parseOptions) (*Result, error) {
	start := time.Now()

	starts := segment.BlockStarts(lines)
	floating := segment.ResolveFloating(lines, starts)
	slog.Info("parse: segmented document",
		"lines", len(lines), "blocks", len(starts), "floating_erns", len(floating))

	workers := options.workers
	if workers <= 0 {
		workers = e.cfg.Workers
	}

	// Each block's outcome lands in its own slot, so the merge below
	// runs in document order no matter which worker finished first.
	outcomes := make([]blockOutcome, len(starts))

	blockEnd := func(i int) int {
		if i+1 < len(starts) {
			return starts[i+1]
		}
		return len(lines)
	}

	if workers <= 1 || len(starts) <= 1 {
		for i, bs := range starts {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = assembleOutcome(lines[bs:blockEnd(i)], bs, floating[bs])
		}
	} else {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			firstErr error
		)
		sem := make(chan struct{}, workers)
		for i, bs := range starts {
			wg.Add(1)
			go func(seq, bs int) {
				defer wg.Done()

				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					mu.Lock()
					if firstErr == nil {
						firstErr = ctx.Err()
					}
					mu.Unlock()
					return
				}

				outcomes[seq] = assembleOutcome(lines[bs:blockEnd(seq)], bs, floating[bs])
			}(i, bs)
		}
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
	}

	set := NewResultSet()
	var failures []BlockFailure
	for _, out := range outcomes {
		if out.failure != nil {
			failures = append(failures, *out.failure)
			continue
		}
		if out.student != nil {
			set.Put(out.student.Key(), out.student)
		}
	}

	res := &Result{
		Records:   set.Map(),
		Order:     set.Keys(),
		Failures:  failures,
		LineCount: len(lines),
		Blocks:    len(starts),
		Elapsed:   time.Since(start),
	}
	slog.Info("parse: complete",
		"students", set.Len(), "blocks", len(starts), "failures", len(failures),
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// archive records the parse in the run store. Failures are non-fatal:
// the parse result is already complete.
func (e *engine) archive(ctx context.Context, res *Result) {
	if e.store == nil {
		return
	}

	run := store.Run{
		SourceFile:  res.SourceFile,
		Pages:       res.Pages,
		LineCount:   res.LineCount,
		Students:    len(res.Order),
		Failures:    len(res.Failures),
		ParseTimeMs: res.Elapsed.Milliseconds(),
		ExamSession: e.cfg.ExamSession,
	}

	students := make([]store.StudentRow, 0, len(res.Order))
	for _, key := range res.Order {
		st := res.Records[key]
		payload, err := json.Marshal(st)
		if err != nil {
			slog.Warn("archive: encoding record failed", "key", key, "error", err)
			continue
		}
		students = append(students, store.StudentRow{
			Key:        key,
			SeatNumber: st.SeatNumber,
			ERN:        stringValue(st.ERN),
			Name:       st.Name,
			Gender:     stringValue(st.Gender),
			College:    st.College,
			Status:     st.Status,
			TotalMarks: st.TotalMarks,
			SGPA:       st.SGPA,
			Result:     st.Result,
			TotalKT:    st.KT.TotalKT,
			HasKT:      st.KT.HasKT,
			Record:     string(payload),
		})
	}

	runID, err := e.store.SaveRun(ctx, run, students)
	if err != nil {
		slog.Warn("archive: saving run failed (non-fatal)", "error", err)
		return
	}
	slog.Info("archive: run saved", "run_id", runID, "students", len(students))
}

// Store returns the underlying run archive.
func (e *engine) Store() *store.Store {
	return e.store
}

// Close shuts down the engine.
func (e *engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

func (e *engine) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	return nil
}

func applyParseOptions(opts []ParseOption) parseOptions {
	var options parseOptions
	for _, o := range opts {
		o(&options)
	}
	return options
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
