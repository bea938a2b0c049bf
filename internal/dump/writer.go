package dump

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Writer emits a dump container: XML declaration, root open marker, one
// self-closing <row/> per record, root close marker. The envelope is always
// completed by Close, even when zero rows were written, so downstream
// readers never see a truncated container for a finished table.
type Writer struct {
	w      *bufio.Writer
	root   string
	closed bool
	esc    bytes.Buffer
}

// NewWriter starts a container with the given root tag and writes the
// envelope header immediately.
func NewWriter(w io.Writer, rootTag string) (*Writer, error) {
	if rootTag == "" {
		return nil, fmt.Errorf("dump: root tag must not be empty")
	}
	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := fmt.Fprintf(bw, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<%s>\n", rootTag); err != nil {
		return nil, fmt.Errorf("dump: write header: %w", err)
	}
	return &Writer{w: bw, root: rootTag}, nil
}

// WriteRow appends one record, attributes in the row's source order. Values
// are XML-escaped, including control characters, so the output parses back
// to the identical field map.
func (w *Writer) WriteRow(row *Row) error {
	if w.closed {
		return fmt.Errorf("dump: write after Close")
	}
	w.w.WriteString("  <" + RecordTag)
	for _, name := range row.Names() {
		w.w.WriteString(" ")
		w.w.WriteString(name)
		w.w.WriteString("=\"")
		w.esc.Reset()
		if err := xml.EscapeText(&w.esc, []byte(row.Value(name))); err != nil {
			return fmt.Errorf("dump: escape attribute %s: %w", name, err)
		}
		w.w.Write(w.esc.Bytes())
		w.w.WriteString("\"")
	}
	if _, err := w.w.WriteString(" />\n"); err != nil {
		return fmt.Errorf("dump: write row: %w", err)
	}
	return nil
}

// Close writes the root close marker and flushes. It is idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if _, err := fmt.Fprintf(w.w, "</%s>\n", w.root); err != nil {
		return fmt.Errorf("dump: write footer: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("dump: flush: %w", err)
	}
	return nil
}
