// Package all wires every built-in storage backend into the storage
// registry. It exists purely for side effects: blank-importing it runs each
// backend's init function, making the kinds "postgres", "sqlite", "mysql",
// and "mssql" available to storage.New.
//
// Binaries that only need a subset can blank-import the individual backend
// packages instead.
package all

import (
	_ "soetl/internal/storage/mssql"
	_ "soetl/internal/storage/mysql"
	_ "soetl/internal/storage/postgres"
	_ "soetl/internal/storage/sqlite"
)
