// Package config defines the JSON-serializable job configuration for the
// extraction toolkit and a static validator over it.
//
// A job file describes one extraction end to end: which tags and date window
// to filter on, where the dump lives, where filtered XML and generated SQL
// go, and (for direct loading) which storage backend to use. Decoding is
// plain encoding/json; defaults are applied after decode so files only state
// what they change.
//
// Example:
//
//	{
//	  "job": "so-languages-2026",
//	  "input_dir": "dumps/stackoverflow.com",
//	  "filtered_dir": "out/filtered",
//	  "sql_dir": "out/sql",
//	  "tags": ["r", "julia", "bash", "dart", "python", "javascript", "java", "c#"],
//	  "start_date": "2018-01-01T00:00:00.000",
//	  "end_date": "2026-01-01T00:00:00.000",
//	  "batch_size": 500,
//	  "storage": { "kind": "postgres", "dsn": "postgresql://localhost/so" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"soetl/internal/datasource/file"
)

// DefaultBatchSize is used when a job file leaves batch_size unset.
const DefaultBatchSize = 500

// Config is the top-level job configuration.
type Config struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// InputDir holds the raw dump files (Users.xml, Posts.xml, ...).
	InputDir string `json:"input_dir"`

	// FilteredDir receives stage-1 output and feeds stage 2.
	FilteredDir string `json:"filtered_dir"`

	// SQLDir receives the generated *_inserts.sql scripts.
	SQLDir string `json:"sql_dir"`

	// Tags is the target tag-name set, matched case-insensitively.
	Tags []string `json:"tags"`

	// TagsFile optionally names a text file of additional tags, one per
	// line; blank lines and '#' comments are skipped.
	TagsFile string `json:"tags_file"`

	// StartDate/EndDate bound the half-open extraction window. Both are
	// dump-format ISO-8601 strings ("2018-01-01T00:00:00.000"); the window
	// test is lexicographic, so the two must be equally wide.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	// BatchSize bounds rows per generated INSERT statement.
	BatchSize int `json:"batch_size"`

	// Storage configures the direct-load backend (cmd/load only).
	Storage Storage `json:"storage"`
}

// Storage selects the database sink for direct loading.
type Storage struct {
	// Kind selects the backend: "postgres", "sqlite", "mysql", "mssql".
	Kind string `json:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn"`
}

// Load reads and decodes a job file, applies defaults, and merges TagsFile
// into Tags when set.
func Load(path string) (Config, error) {
	var c Config
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.TagsFile != "" {
		extra, err := file.ReadList(c.TagsFile)
		if err != nil {
			return c, fmt.Errorf("config: tags file: %w", err)
		}
		c.Tags = append(c.Tags, extra...)
	}
	return c, nil
}
