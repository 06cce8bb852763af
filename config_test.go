package gazette

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Workers != 8 {
		t.Errorf("workers: got %d, want 8", cfg.Workers)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Errorf("max upload: got %d, want %d", cfg.MaxUploadBytes, 50<<20)
	}
	if cfg.ExamSession != "December 2025" {
		t.Errorf("exam session: got %q", cfg.ExamSession)
	}
	if cfg.University != "University of Mumbai" {
		t.Errorf("university: got %q", cfg.University)
	}
	if cfg.DBPath != "" {
		t.Errorf("db path: got %q, want empty", cfg.DBPath)
	}
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml", `
db_path: /tmp/runs.db
workers: 4
exam_session: May 2026
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.DBPath != "/tmp/runs.db" {
		t.Errorf("db path: got %q", cfg.DBPath)
	}
	if cfg.Workers != 4 {
		t.Errorf("workers: got %d, want 4", cfg.Workers)
	}
	if cfg.ExamSession != "May 2026" {
		t.Errorf("exam session: got %q", cfg.ExamSession)
	}
	// Untouched fields keep their defaults.
	if cfg.University != "University of Mumbai" {
		t.Errorf("university: got %q, want default", cfg.University)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Errorf("max upload: got %d, want default", cfg.MaxUploadBytes)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfigFile(t, "config.json", `{"workers": 2, "max_upload_bytes": 1048576}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers: got %d, want 2", cfg.Workers)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Errorf("max upload: got %d, want %d", cfg.MaxUploadBytes, 1<<20)
	}
}

func TestLoadConfigUnknownExtension(t *testing.T) {
	path := writeConfigFile(t, "config.toml", `workers = 2`)

	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	if err := cfg.validate(); err != nil {
		t.Fatalf("validating zero config: %v", err)
	}
	if cfg.Workers != defaultWorkers {
		t.Errorf("workers: got %d, want default %d", cfg.Workers, defaultWorkers)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Errorf("max upload: got %d, want default", cfg.MaxUploadBytes)
	}

	bad := Config{Workers: -2}
	if err := bad.validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative workers, got %v", err)
	}

	bad = Config{MaxUploadBytes: -1}
	if err := bad.validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative size limit, got %v", err)
	}
}
