package sqlgen

import (
	"bufio"
	"fmt"
	"io"

	"soetl/internal/schema"
)

// DefaultBatchSize bounds the number of rows per INSERT statement.
const DefaultBatchSize = 500

// Emitter groups rendered rows into batches and flushes each batch as one
// bulk INSERT statement. The whole file is wrapped in BEGIN/COMMIT markers;
// a batch boundary never splits a statement.
type Emitter struct {
	w         *bufio.Writer
	table     schema.Table
	batchSize int
	buf       []string

	rows       int
	statements int
	closed     bool
}

// NewEmitter starts a script for the given table and writes the leading
// transaction marker immediately.
func NewEmitter(w io.Writer, t schema.Table, batchSize int) (*Emitter, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := fmt.Fprintf(bw, "-- Insert script for table %s\nBEGIN;\n\n", t.Name); err != nil {
		return nil, fmt.Errorf("sqlgen: write header: %w", err)
	}
	return &Emitter{
		w:         bw,
		table:     t,
		batchSize: batchSize,
		buf:       make([]string, 0, batchSize),
	}, nil
}

// Add buffers one rendered row literal, flushing a full batch as a single
// statement.
func (e *Emitter) Add(rowLiteral string) error {
	if e.closed {
		return fmt.Errorf("sqlgen: add after Close")
	}
	e.buf = append(e.buf, rowLiteral)
	e.rows++
	if len(e.buf) >= e.batchSize {
		return e.flush()
	}
	return nil
}

func (e *Emitter) flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(e.w, "INSERT INTO %s (%s) VALUES\n", e.table.Name, e.table.ColumnList()); err != nil {
		return fmt.Errorf("sqlgen: write insert: %w", err)
	}
	for i, r := range e.buf {
		sep := ",\n"
		if i == len(e.buf)-1 {
			sep = ";\n\n"
		}
		if _, err := e.w.WriteString(r + sep); err != nil {
			return fmt.Errorf("sqlgen: write row: %w", err)
		}
	}
	e.statements++
	e.buf = e.buf[:0]
	return nil
}

// Close flushes any partial batch, writes the trailing transaction marker,
// and flushes the underlying writer. It is idempotent.
func (e *Emitter) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if err := e.flush(); err != nil {
		return err
	}
	if _, err := e.w.WriteString("COMMIT;\n"); err != nil {
		return fmt.Errorf("sqlgen: write footer: %w", err)
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("sqlgen: flush: %w", err)
	}
	return nil
}

// Rows returns the number of rows added so far.
func (e *Emitter) Rows() int { return e.rows }

// Statements returns the number of INSERT statements flushed so far.
func (e *Emitter) Statements() int { return e.statements }
