// ABOUTME: Registers the default pure-Go SQLite driver
// ABOUTME: modernc.org/sqlite registers itself under the name "sqlite"

package store

import (
	"database/sql"
	"slices"

	_ "modernc.org/sqlite"
)

// DriverAvailable reports whether a database/sql driver with this name is
// registered in the running binary. DriverCGO is missing from CGO_ENABLED=0 builds.
func DriverAvailable(name string) bool {
	return slices.Contains(sql.Drivers(), name)
}
