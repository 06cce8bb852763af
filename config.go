package gazette

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the gazette engine.
type Config struct {
	// DBPath is the path to the SQLite archive database. When empty, parse
	// runs are not archived.
	DBPath string `json:"db_path" yaml:"db_path"`

	// Workers bounds parallel block assembly. 0 means the default; 1 forces
	// sequential assembly. Output is identical either way.
	Workers int `json:"workers" yaml:"workers"`

	// MaxUploadBytes caps the size of documents accepted over HTTP.
	// Defaults to 50 MB.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`

	// ExamSession and University annotate responses and exports; they are
	// presentation metadata, not parsing inputs.
	ExamSession string `json:"exam_session" yaml:"exam_session"`
	University  string `json:"university" yaml:"university"`
}

// defaultWorkers bounds parallel block assembly when Workers is unset.
const defaultWorkers = 8

// DefaultConfig returns a Config with the defaults used by the CLIs and the
// server when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Workers:        defaultWorkers,
		MaxUploadBytes: 50 << 20,
		ExamSession:    "December 2025",
		University:     "University of Mumbai",
	}
}

// LoadConfig reads a JSON or YAML config file (by extension) over the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("%w: unrecognized config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}

	return cfg, nil
}

// validate normalizes zero values and rejects impossible ones.
func (c *Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("%w: max_upload_bytes must be >= 0", ErrInvalidConfig)
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 50 << 20
	}
	return nil
}
