package config

import (
	"fmt"
	"strings"
)

// IssueSeverity classifies a validation finding.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the job
// file (e.g. "storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error so an Issue can be handled as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

var knownStorageKinds = map[string]struct{}{
	"postgres": {},
	"sqlite":   {},
	"mysql":    {},
	"mssql":    {},
}

// Validate statically checks a Config and returns all findings. It does not
// mutate the config; callers decide whether warnings are fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and logs will carry a blank job label",
		})
	}
	if strings.TrimSpace(c.InputDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "input_dir",
			Message:  "input_dir must not be empty",
		})
	}
	if strings.TrimSpace(c.FilteredDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "filtered_dir",
			Message:  "filtered_dir must not be empty",
		})
	}

	if len(c.Tags) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "tags",
			Message:  "target tag set must not be empty (set tags or tags_file)",
		})
	}

	issues = append(issues, validateWindow(c)...)

	if c.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "batch_size",
			Message:  "batch_size must not be negative",
		})
	}

	if c.Storage.Kind != "" {
		if _, ok := knownStorageKinds[c.Storage.Kind]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "storage.kind",
				Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", c.Storage.Kind),
			})
		}
		if strings.TrimSpace(c.Storage.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  "storage.dsn must not be empty when storage.kind is set",
			})
		}
	}

	return issues
}

// validateWindow checks the date window. The window test downstream is a
// lexicographic string comparison, so beyond non-emptiness the two bounds
// must be the same width and ordered.
func validateWindow(c Config) []Issue {
	var issues []Issue

	start := c.StartDate
	end := c.EndDate
	if start == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "start_date",
			Message:  "start_date must not be empty",
		})
	}
	if end == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "end_date",
			Message:  "end_date must not be empty",
		})
	}
	if start == "" || end == "" {
		return issues
	}

	if len(start) != len(end) {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "start_date",
			Message:  "start_date and end_date have different widths; lexicographic comparison assumes fixed-width ISO-8601",
		})
	}
	if start >= end {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "end_date",
			Message:  "end_date must be strictly after start_date (window is half-open [start, end))",
		})
	}
	return issues
}
