package store

// schemaSQL returns the DDL for all tables.
func schemaSQL() string {
	return `
-- Parse run registry, one row per parsed gazette
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY,
    source_file TEXT NOT NULL,
    pages INTEGER DEFAULT 0,
    line_count INTEGER DEFAULT 0,
    students INTEGER DEFAULT 0,
    failures INTEGER DEFAULT 0,
    parse_time_ms INTEGER DEFAULT 0,
    exam_session TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Assembled student records, denormalized for filtering plus the full
-- record payload as JSON
CREATE TABLE IF NOT EXISTS students (
    id INTEGER PRIMARY KEY,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    student_key TEXT NOT NULL,
    seat_number TEXT NOT NULL,
    ern TEXT,
    name TEXT NOT NULL,
    gender TEXT,
    college TEXT,
    status TEXT,
    total_marks INTEGER DEFAULT 0,
    sgpa REAL DEFAULT 0,
    result TEXT,
    total_kt INTEGER DEFAULT 0,
    has_kt INTEGER DEFAULT 0,
    record JSON NOT NULL,
    UNIQUE(run_id, student_key)
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_students_run ON students(run_id);
CREATE INDEX IF NOT EXISTS idx_students_seat ON students(seat_number);
CREATE INDEX IF NOT EXISTS idx_students_ern ON students(ern);
CREATE INDEX IF NOT EXISTS idx_students_result ON students(run_id, result);
`
}
