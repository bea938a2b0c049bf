package dump

import (
	"bufio"
	"encoding/xml"
	"io"
)

// Reader streams records out of a dump container one at a time.
//
// Next returns io.EOF after the last record. Any structural XML error is
// returned as *MalformedError carrying the decoder's byte offset; no partial
// record is exposed. The reader never seeks backward and retains no
// reference to rows it has already produced.
type Reader struct {
	dec  *xml.Decoder
	path string
}

// NewReader returns a Reader over r. path is used only in error messages and
// may be empty.
func NewReader(r io.Reader, path string) *Reader {
	br := bufio.NewReaderSize(r, 1<<20)
	return &Reader{dec: xml.NewDecoder(br), path: path}
}

// Next returns the next record, or io.EOF when the container is exhausted.
func (r *Reader) Next() (*Row, error) {
	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, &MalformedError{Path: r.path, Offset: r.dec.InputOffset(), Err: err}
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != RecordTag {
			continue
		}
		row := &Row{
			names:  make([]string, 0, len(se.Attr)),
			fields: make(map[string]string, len(se.Attr)),
		}
		for _, a := range se.Attr {
			row.Set(a.Name.Local, a.Value)
		}
		// Consume through the matching end element so the decoder holds no
		// record state between calls.
		if err := r.dec.Skip(); err != nil {
			return nil, &MalformedError{Path: r.path, Offset: r.dec.InputOffset(), Err: err}
		}
		return row, nil
	}
}

// ForEach drains the reader, invoking fn for every record. It stops on the
// first error from fn or from the underlying stream.
func (r *Reader) ForEach(fn func(*Row) error) error {
	for {
		row, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}
