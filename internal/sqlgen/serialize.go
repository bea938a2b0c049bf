// Package sqlgen turns filtered dump tables into SQL load scripts: one file
// per table, a transaction around batched multi-row INSERT statements, with
// every value rendered by the column's declared type.
package sqlgen

import (
	"strings"

	"soetl/internal/dump"
	"soetl/internal/schema"
)

// FormatValue renders one SQL literal for a column value.
//
// Absent attributes render as NULL (source schemas evolve and optional
// attributes come and go; absence is never an error). Quoted types double
// every embedded single quote. Booleans accept case-insensitive "true";
// anything else is FALSE. Integer types pass through verbatim; the dump
// encodes them as plain digit sequences.
func FormatValue(v string, present bool, t schema.Type) string {
	if !present {
		return "NULL"
	}
	if t == schema.Bool {
		if strings.EqualFold(v, "true") {
			return "TRUE"
		}
		return "FALSE"
	}
	if t.Quoted() {
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return v
}

// RenderRow renders a record as a parenthesized literal list aligned with
// the table's column order.
func RenderRow(row *dump.Row, t schema.Table) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		v, ok := row.Get(c.Name)
		b.WriteString(FormatValue(v, ok, c.Type))
	}
	b.WriteByte(')')
	return b.String()
}
