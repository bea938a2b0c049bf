package sqlgen

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"soetl/internal/dump"
	"soetl/internal/metrics"
	"soetl/internal/schema"
)

// ErrMissingInput marks a filtered table file absent from the input
// directory; the table is skipped with a warning.
var ErrMissingInput = errors.New("sqlgen: input file missing")

// Result reports one generated script.
type Result struct {
	Table      string
	Path       string
	Rows       int
	Statements int
}

// GenerateTable streams one filtered table file into a SQL script named
// <table>_inserts.sql under outDir.
func GenerateTable(t schema.Table, inDir, outDir string, batchSize int) (Result, error) {
	res := Result{Table: t.Name}

	inPath := filepath.Join(inDir, t.FilteredFile)
	src, err := os.Open(inPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("sqlgen: %s not found; skipping table %s", inPath, t.Name)
		return res, ErrMissingInput
	}
	if err != nil {
		return res, fmt.Errorf("sqlgen: open %s: %w", inPath, err)
	}
	defer src.Close()

	res.Path = filepath.Join(outDir, t.Name+"_inserts.sql")
	out, err := os.Create(res.Path)
	if err != nil {
		return res, fmt.Errorf("sqlgen: create %s: %w", res.Path, err)
	}
	defer out.Close()

	e, err := NewEmitter(out, t, batchSize)
	if err != nil {
		return res, err
	}

	warnedGUID := false
	rd := dump.NewReader(src, inPath)
	err = rd.ForEach(func(row *dump.Row) error {
		for _, c := range t.Columns {
			if c.Type != schema.UUID {
				continue
			}
			if v, ok := row.Get(c.Name); ok && uuid.Validate(v) != nil && !warnedGUID {
				// Loaded verbatim either way; the column is a plain string.
				log.Printf("sqlgen: %s: non-GUID value in column %s (first: %q)", t.Name, c.SQLName(), v)
				warnedGUID = true
			}
		}
		return e.Add(RenderRow(row, t))
	})
	if err != nil {
		return res, err
	}
	if err := e.Close(); err != nil {
		return res, err
	}
	if err := out.Close(); err != nil {
		return res, fmt.Errorf("sqlgen: close %s: %w", res.Path, err)
	}

	res.Rows = e.Rows()
	res.Statements = e.Statements()
	log.Printf("sqlgen: %s: %d rows in %d statements -> %s", t.Name, res.Rows, res.Statements, res.Path)
	return res, nil
}

// GenerateAll runs GenerateTable for every declared table, in load order.
// Missing inputs are skipped; the first structural error aborts. job labels
// the emitted metrics.
func GenerateAll(inDir, outDir string, batchSize int, job string) ([]Result, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("sqlgen: create output dir: %w", err)
	}
	var results []Result
	for _, t := range schema.Tables() {
		start := time.Now()
		res, err := GenerateTable(t, inDir, outDir, batchSize)
		if errors.Is(err, ErrMissingInput) {
			continue
		}
		metrics.RecordStep(job, "sqlgen_"+t.Name, err, time.Since(start))
		if err != nil {
			return results, err
		}
		metrics.RecordRows(job, t.Name, int64(res.Rows))
		results = append(results, res)
	}
	return results, nil
}
