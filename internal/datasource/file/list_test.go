package file

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.txt")
	const body = "# languages\npython\n\n  julia  \n# more\nr\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	want := []string{"python", "julia", "r"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadList = %v, want %v", got, want)
	}
}

func TestReadList_Missing(t *testing.T) {
	if _, err := ReadList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("ReadList should fail on a missing file")
	}
}

func TestReadList_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ReadList = %v, want empty", got)
	}
}
