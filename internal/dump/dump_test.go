package dump

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReader_Basic(t *testing.T) {
	const src = `<?xml version="1.0" encoding="utf-8"?>
<posts>
  <row Id="1" PostTypeId="1" Title="hello" />
  <row Id="2" PostTypeId="2" ParentId="1" />
</posts>
`
	rd := NewReader(strings.NewReader(src), "posts.xml")

	row, err := rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := row.Value("Id"); got != "1" {
		t.Fatalf("Id = %q, want 1", got)
	}
	if got := row.Names(); len(got) != 3 || got[0] != "Id" || got[2] != "Title" {
		t.Fatalf("Names = %v, want source order", got)
	}

	row, err = rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := row.Value("ParentId"); got != "1" {
		t.Fatalf("ParentId = %q, want 1", got)
	}

	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("Next at end = %v, want io.EOF", err)
	}
}

func TestReader_IgnoresNonRowElements(t *testing.T) {
	const src = `<tags><metadata>x</metadata><row Id="7" TagName="go" /></tags>`
	rd := NewReader(strings.NewReader(src), "")
	row, err := rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row.Value("TagName") != "go" {
		t.Fatalf("TagName = %q, want go", row.Value("TagName"))
	}
}

func TestReader_MalformedCarriesOffset(t *testing.T) {
	// Root element never closes and the second row is structurally broken.
	const src = `<posts><row Id="1" /><row Id="2" <broken</posts>`
	rd := NewReader(strings.NewReader(src), "posts.xml")

	if _, err := rd.Next(); err != nil {
		t.Fatalf("first row should parse: %v", err)
	}
	_, err := rd.Next()
	var mal *MalformedError
	if !errors.As(err, &mal) {
		t.Fatalf("err = %v, want *MalformedError", err)
	}
	if mal.Offset <= 0 {
		t.Fatalf("Offset = %d, want > 0", mal.Offset)
	}
	if mal.Path != "posts.xml" {
		t.Fatalf("Path = %q, want posts.xml", mal.Path)
	}
}

func TestWriter_EmptyEnvelope(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, "votes")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<votes>\n</votes>\n"
	if buf.String() != want {
		t.Fatalf("envelope = %q, want %q", buf.String(), want)
	}
	// Close must be idempotent.
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestWriter_WriteAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, "posts")
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.WriteRow(NewRow()); err == nil {
		t.Fatal("WriteRow after Close should fail")
	}
}

// TestRoundTrip writes rows with awkward attribute values and checks that
// re-reading the output yields identical field maps.
func TestRoundTrip(t *testing.T) {
	values := map[string]string{
		"Body":     "line one\nline two\ttabbed",
		"Title":    `quotes " and ' and <tags> & ampersands`,
		"Tags":     "<python><pandas>",
		"Location": "São Paulo, Brasil",
		"Empty":    "",
	}

	in := NewRow()
	for _, k := range []string{"Body", "Title", "Tags", "Location", "Empty"} {
		in.Set(k, values[k])
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, "posts")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteRow(in); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rd := NewReader(bytes.NewReader(buf.Bytes()), "")
	out, err := rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if out.Len() != in.Len() {
		t.Fatalf("round-trip field count = %d, want %d", out.Len(), in.Len())
	}
	for k, want := range values {
		got, ok := out.Get(k)
		if !ok {
			t.Fatalf("attribute %s lost in round trip", k)
		}
		if got != want {
			t.Fatalf("attribute %s = %q, want %q", k, got, want)
		}
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("expected single row, got err=%v", err)
	}
}

func TestRow_SetReplacesWithoutReorder(t *testing.T) {
	r := NewRow()
	r.Set("A", "1")
	r.Set("B", "2")
	r.Set("A", "3")
	if got := r.Value("A"); got != "3" {
		t.Fatalf("A = %q, want 3", got)
	}
	if names := r.Names(); len(names) != 2 || names[0] != "A" {
		t.Fatalf("Names = %v, want [A B]", names)
	}
}
