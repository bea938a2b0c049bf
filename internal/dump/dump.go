// Package dump reads and writes the Stack Exchange data-dump container
// format: an XML file whose root element wraps a flat list of self-closing
// <row .../> elements, one per record, with every field carried as a string
// attribute.
//
// The reader is strictly forward-only and holds one record at a time, so
// multi-gigabyte dump files can be processed in constant memory. The writer
// produces the same container format, which gives the pipeline its round-trip
// property: a filtered file written here parses back to the same field maps.
package dump

import "fmt"

// RecordTag is the element name of one record in the dump container.
const RecordTag = "row"

// Row is a single dump record: named string attributes in source order.
// The attribute order is retained so rewritten files stay byte-stable and
// diffable against their source.
type Row struct {
	names  []string
	fields map[string]string
}

// NewRow returns an empty Row.
func NewRow() *Row {
	return &Row{fields: make(map[string]string, 8)}
}

// Set adds or replaces an attribute. New names append to the order.
func (r *Row) Set(name, value string) {
	if _, ok := r.fields[name]; !ok {
		r.names = append(r.names, name)
	}
	r.fields[name] = value
}

// Get returns the attribute value and whether it is present.
func (r *Row) Get(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Value returns the attribute value, or "" when absent.
func (r *Row) Value(name string) string { return r.fields[name] }

// Has reports whether the attribute is present.
func (r *Row) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Names returns the attribute names in source order. The slice is shared;
// callers must not mutate it.
func (r *Row) Names() []string { return r.names }

// Len returns the number of attributes.
func (r *Row) Len() int { return len(r.fields) }

// Fields returns a copy of the attribute map.
func (r *Row) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// MalformedError reports structurally invalid XML in a dump file. It is
// fatal to the run: once any record may have been skipped, downstream
// identifier sets cannot be trusted.
type MalformedError struct {
	Path   string // source path, when known
	Offset int64  // byte offset of the failed token
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("dump: %s: malformed input at byte %d: %v", e.Path, e.Offset, e.Err)
	}
	return fmt.Sprintf("dump: malformed input at byte %d: %v", e.Offset, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }
