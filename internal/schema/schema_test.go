package schema

import (
	"strings"
	"testing"
)

func TestTables_LoadOrder(t *testing.T) {
	want := []string{"users", "tags", "posts", "comments", "votes", "posthistory", "postlinks", "badges", "posttags"}
	got := Tables()
	if len(got) != len(want) {
		t.Fatalf("table count = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("table %d = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestLookup(t *testing.T) {
	tbl, ok := Lookup("votes")
	if !ok {
		t.Fatal("votes should exist")
	}
	if tbl.DumpFile != "Votes.xml" || tbl.FilteredFile != "filtered_Votes.xml" || tbl.RootTag != "votes" {
		t.Fatalf("votes declaration = %+v", tbl)
	}
	if _, ok := Lookup("nope"); ok {
		t.Fatal("Lookup should miss unknown tables")
	}
}

func TestColumnList(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"tags", "id, tagname, count, excerptpostid, wikipostid"},
		{"comments", "id, postid, score, text, creationdate, userid, contentlicense"},
		{"badges", "id, userid, name, date, class, tagbased"},
		{"posttags", "postid, tagid"},
	}
	for _, tc := range tests {
		tbl, ok := Lookup(tc.table)
		if !ok {
			t.Fatalf("missing table %s", tc.table)
		}
		if got := tbl.ColumnList(); got != tc.want {
			t.Errorf("%s column list = %q, want %q", tc.table, got, tc.want)
		}
	}
}

func TestDerivedTableHasNoDumpFile(t *testing.T) {
	tbl, _ := Lookup("posttags")
	if tbl.DumpFile != "" {
		t.Fatalf("posttags DumpFile = %q, want empty (derived relation)", tbl.DumpFile)
	}
}

func TestTypeQuoted(t *testing.T) {
	quoted := []Type{Varchar, Text, Timestamp, Date, UUID}
	bare := []Type{Int, SmallInt, Bool}
	for _, typ := range quoted {
		if !typ.Quoted() {
			t.Errorf("%v should be quoted", typ)
		}
	}
	for _, typ := range bare {
		if typ.Quoted() {
			t.Errorf("%v should not be quoted", typ)
		}
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	tbl, _ := Lookup("posttags")
	stmt, err := BuildCreateTableSQL(tbl)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS posttags (\n  postid INTEGER,\n  tagid INTEGER\n);"
	if stmt != want {
		t.Fatalf("stmt = %q, want %q", stmt, want)
	}
}

func TestBuildCreateTableSQL_TypeMapping(t *testing.T) {
	tbl, _ := Lookup("badges")
	stmt, err := BuildCreateTableSQL(tbl)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	for _, frag := range []string{"name VARCHAR(1024)", "date TIMESTAMP", "class SMALLINT", "tagbased BOOLEAN"} {
		if !strings.Contains(stmt, frag) {
			t.Errorf("stmt missing %q:\n%s", frag, stmt)
		}
	}
}

func TestBuildCreateTableSQL_Invalid(t *testing.T) {
	if _, err := BuildCreateTableSQL(Table{Name: ""}); err == nil {
		t.Fatal("empty table name should fail")
	}
	if _, err := BuildCreateTableSQL(Table{Name: "t"}); err == nil {
		t.Fatal("zero columns should fail")
	}
	if _, err := BuildCreateTableSQL(Table{Name: "t", Columns: []Column{{Name: " "}}}); err == nil {
		t.Fatal("blank column name should fail")
	}
}
