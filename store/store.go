// Package store archives parse runs in SQLite: one row per run, one row
// per assembled student record. The denormalized student columns support
// filtering and lookups without decoding the JSON payload.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run represents a row in the runs table.
type Run struct {
	ID          int64  `json:"id"`
	SourceFile  string `json:"sourceFile"`
	Pages       int    `json:"pages"`
	LineCount   int    `json:"lineCount"`
	Students    int    `json:"students"`
	Failures    int    `json:"failures"`
	ParseTimeMs int64  `json:"parseTimeMs"`
	ExamSession string `json:"examSession"`
	CreatedAt   string `json:"createdAt"`
}

// StudentRow represents a row in the students table. Record carries the
// full assembled record as JSON; the remaining columns are denormalized
// from it.
type StudentRow struct {
	ID         int64   `json:"id"`
	RunID      int64   `json:"runId"`
	Key        string  `json:"key"`
	SeatNumber string  `json:"seatNumber"`
	ERN        string  `json:"ern,omitempty"`
	Name       string  `json:"name"`
	Gender     string  `json:"gender,omitempty"`
	College    string  `json:"college,omitempty"`
	Status     string  `json:"status,omitempty"`
	TotalMarks int     `json:"totalMarks"`
	SGPA       float64 `json:"sgpa"`
	Result     string  `json:"result"`
	TotalKT    int     `json:"totalKT"`
	HasKT      bool    `json:"hasKT"`
	Record     string  `json:"record,omitempty"`
}

// Store wraps the SQLite database for all gazette persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL()); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	// Run pending migrations.
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Run operations ---

// SaveRun records one parse run together with its student rows in a single
// transaction. Returns the run ID.
func (s *Store) SaveRun(ctx context.Context, run Run, students []StudentRow) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (source_file, pages, line_count, students, failures, parse_time_ms, exam_session)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.SourceFile, run.Pages, run.LineCount, run.Students, run.Failures, run.ParseTimeMs, run.ExamSession)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO students (run_id, student_key, seat_number, ern, name, gender, college, status,
			total_marks, sgpa, result, total_kt, has_kt, record)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing student insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range students {
		if _, err := stmt.ExecContext(ctx, runID, st.Key, st.SeatNumber, nullable(st.ERN),
			st.Name, nullable(st.Gender), nullable(st.College), nullable(st.Status),
			st.TotalMarks, st.SGPA, st.Result, st.TotalKT, st.HasKT, st.Record); err != nil {
			return 0, fmt.Errorf("inserting student %s: %w", st.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	run := &Run{}
	var session sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_file, pages, line_count, students, failures, parse_time_ms, exam_session, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.SourceFile, &run.Pages, &run.LineCount,
		&run.Students, &run.Failures, &run.ParseTimeMs, &session, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.ExamSession = session.String
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_file, pages, line_count, students, failures, parse_time_ms, exam_session, created_at
		FROM runs ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var session sql.NullString
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.Pages, &r.LineCount,
			&r.Students, &r.Failures, &r.ParseTimeMs, &session, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.ExamSession = session.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run and all its student rows.
func (s *Store) DeleteRun(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// --- Student operations ---

// Students returns a run's student rows in document order.
func (s *Store) Students(ctx context.Context, runID int64) ([]StudentRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, student_key, seat_number, ern, name, gender, college, status,
			total_marks, sgpa, result, total_kt, has_kt, record
		FROM students WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []StudentRow
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// FindStudent looks a student up within one run by record key, seat number
// or enrollment reference.
func (s *Store) FindStudent(ctx context.Context, runID int64, key string) (*StudentRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_id, student_key, seat_number, ern, name, gender, college, status,
			total_marks, sgpa, result, total_kt, has_kt, record
		FROM students
		WHERE run_id = ? AND (student_key = ? OR seat_number = ? OR ern = ?)
	`, runID, key, key, key)
	st, err := scanStudent(row)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// CountKT returns how many of a run's students carry at least one backlog.
func (s *Store) CountKT(ctx context.Context, runID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM students WHERE run_id = ? AND has_kt = 1", runID).Scan(&n)
	return n, err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (StudentRow, error) {
	var st StudentRow
	var ern, gender, college, status, result sql.NullString
	err := row.Scan(&st.ID, &st.RunID, &st.Key, &st.SeatNumber, &ern, &st.Name,
		&gender, &college, &status, &st.TotalMarks, &st.SGPA, &result,
		&st.TotalKT, &st.HasKT, &st.Record)
	if err != nil {
		return StudentRow{}, err
	}
	st.ERN = ern.String
	st.Gender = gender.String
	st.College = college.String
	st.Status = status.String
	st.Result = result.String
	return st, nil
}

// nullable maps "" to NULL so absent values stay distinct from empty text.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
