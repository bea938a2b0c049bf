package schema

import (
	"fmt"
	"strings"
)

// BuildCreateTableSQL renders a CREATE TABLE statement for a declared table.
//
// The statement is deliberately generic: identifiers are emitted unquoted in
// lowercase, types come from Type.SQLType, and every column is nullable (the
// dump omits optional attributes freely, and the loader writes NULL for
// them). Backends that need dialect-specific DDL can wrap this with their own
// type mapping; for the tables declared in this package, the generic form is
// accepted by Postgres, SQLite, and MySQL.
func BuildCreateTableSQL(t Table) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("schema: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("schema: table %s has no columns", t.Name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("schema: table %s has a column with an empty name", t.Name)
		}
		cols = append(cols, c.SQLName()+" "+c.Type.SQLType())
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		t.Name,
		strings.Join(cols, ",\n  "),
	)
	return stmt, nil
}
