package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
  "job": "so-test",
  "input_dir": "in",
  "filtered_dir": "out/filtered",
  "sql_dir": "out/sql",
  "tags": ["julia", "r"],
  "start_date": "2020-01-01T00:00:00.000",
  "end_date": "2021-01-01T00:00:00.000",
  "storage": { "kind": "postgres", "dsn": "postgresql://localhost/so" }
}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Job != "so-test" || c.InputDir != "in" || c.SQLDir != "out/sql" {
		t.Fatalf("decoded config = %+v", c)
	}
	if !reflect.DeepEqual(c.Tags, []string{"julia", "r"}) {
		t.Fatalf("Tags = %v", c.Tags)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Fatalf("BatchSize = %d, want default %d", c.BatchSize, DefaultBatchSize)
	}
	if c.Storage.Kind != "postgres" {
		t.Fatalf("Storage.Kind = %q", c.Storage.Kind)
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeConfig(t, `{"job": "x", "batchsize": 100}`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject unknown fields")
	}
}

func TestLoad_MergesTagsFile(t *testing.T) {
	dir := t.TempDir()
	tagsPath := filepath.Join(dir, "tags.txt")
	const tagList = "# extraction targets\nbash\n\n  dart  \njavascript\n"
	if err := os.WriteFile(tagsPath, []byte(tagList), 0o644); err != nil {
		t.Fatalf("write tags file: %v", err)
	}

	path := writeConfig(t, `{
  "tags": ["python"],
  "tags_file": "`+tagsPath+`"
}`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"python", "bash", "dart", "javascript"}
	if !reflect.DeepEqual(c.Tags, want) {
		t.Fatalf("Tags = %v, want %v", c.Tags, want)
	}
}

func TestLoad_MissingTagsFile(t *testing.T) {
	path := writeConfig(t, `{"tags_file": "/nonexistent/tags.txt"}`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load should fail on a missing tags file")
	}
}

func validConfig() Config {
	return Config{
		Job:         "job",
		InputDir:    "in",
		FilteredDir: "out",
		Tags:        []string{"go"},
		StartDate:   "2020-01-01T00:00:00.000",
		EndDate:     "2021-01-01T00:00:00.000",
		BatchSize:   500,
	}
}

func findIssue(issues []Issue, path string) (Issue, bool) {
	for _, i := range issues {
		if i.Path == path {
			return i, true
		}
	}
	return Issue{}, false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		path     string
		severity IssueSeverity
	}{
		{"empty job warns", func(c *Config) { c.Job = "" }, "job", SeverityWarning},
		{"empty input dir", func(c *Config) { c.InputDir = "" }, "input_dir", SeverityError},
		{"empty filtered dir", func(c *Config) { c.FilteredDir = "" }, "filtered_dir", SeverityError},
		{"empty tags", func(c *Config) { c.Tags = nil }, "tags", SeverityError},
		{"empty start date", func(c *Config) { c.StartDate = "" }, "start_date", SeverityError},
		{"empty end date", func(c *Config) { c.EndDate = "" }, "end_date", SeverityError},
		{"reversed window", func(c *Config) {
			c.StartDate, c.EndDate = c.EndDate, c.StartDate
		}, "end_date", SeverityError},
		{"mismatched widths warn", func(c *Config) { c.EndDate = "2021-01-01" }, "start_date", SeverityWarning},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }, "batch_size", SeverityError},
		{"unknown storage kind warns", func(c *Config) {
			c.Storage = Storage{Kind: "oracle", DSN: "x"}
		}, "storage.kind", SeverityWarning},
		{"storage kind without dsn", func(c *Config) {
			c.Storage = Storage{Kind: "postgres"}
		}, "storage.dsn", SeverityError},
	}
	for _, tc := range tests {
		c := validConfig()
		tc.mutate(&c)
		issues := Validate(c)
		iss, ok := findIssue(issues, tc.path)
		if !ok {
			t.Errorf("%s: no issue at %s (got %v)", tc.name, tc.path, issues)
			continue
		}
		if iss.Severity != tc.severity {
			t.Errorf("%s: severity = %s, want %s", tc.name, iss.Severity, tc.severity)
		}
	}
}

func TestValidate_CleanConfig(t *testing.T) {
	if issues := Validate(validConfig()); len(issues) != 0 {
		t.Fatalf("valid config produced issues: %v", issues)
	}
}

func TestIssue_Error(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "tags", Message: "boom"}
	if got := iss.Error(); !strings.Contains(got, "tags") || !strings.Contains(got, "boom") {
		t.Fatalf("Error() = %q", got)
	}
}
