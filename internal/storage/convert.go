package storage

import (
	"fmt"
	"strconv"
	"strings"

	"soetl/internal/dump"
	"soetl/internal/schema"
)

// RowValues converts a dump record into a driver-typed value slice aligned
// with the table's column order. Absent attributes become nil (SQL NULL);
// integer columns are parsed, booleans folded, everything else passes as a
// string for the driver to coerce.
func RowValues(row *dump.Row, t schema.Table) ([]any, error) {
	out := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		v, ok := row.Get(c.Name)
		if !ok {
			continue // nil
		}
		switch c.Type {
		case schema.Int, schema.SmallInt:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s.%s: not an integer: %q", t.Name, c.SQLName(), v)
			}
			out[i] = n
		case schema.Bool:
			out[i] = strings.EqualFold(v, "true")
		default:
			out[i] = v
		}
	}
	return out, nil
}
